package controllers

import (
	"net/http"
	"strconv"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type NotificationController struct {
	Notifications *services.NotificationService
	Log           logrus.FieldLogger
}

func NewNotificationController(ns *services.NotificationService, log logrus.FieldLogger) *NotificationController {
	return &NotificationController{Notifications: ns, Log: log}
}

// GET /notifications?unread=true&limit=50
func (h *NotificationController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.Notifications.List(c.Request.Context(), uid, c.Query("unread") == "true", limit)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /notifications/:id/read
func (h *NotificationController) MarkRead(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(c.Request.Context(), uid, id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
