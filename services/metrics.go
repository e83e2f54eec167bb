package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var followEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fittrack",
	Name:      "follow_events_total",
	Help:      "Social graph transitions by event.",
}, []string{"event"})
