package controllers

import (
	"net/http"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReportController struct {
	Reports *services.ReportService
	Log     logrus.FieldLogger
	Now     func() time.Time
}

func NewReportController(reports *services.ReportService, log logrus.FieldLogger) *ReportController {
	return &ReportController{Reports: reports, Log: log, Now: time.Now}
}

// GET /dashboard
func (h *ReportController) Dashboard(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Reports.Dashboard(c.Request.Context(), uid, h.Now())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /reports/daily?date=YYYY-MM-DD
func (h *ReportController) Daily(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Reports.Daily(c.Request.Context(), uid, c.Query("date"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /reports/weekly?start=YYYY-MM-DD
func (h *ReportController) Weekly(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Reports.Weekly(c.Request.Context(), uid, c.Query("start"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /reports/monthly?month=YYYY-MM
func (h *ReportController) Monthly(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Reports.Monthly(c.Request.Context(), uid, c.Query("month"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /reports/exercises
func (h *ReportController) Exercises(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Reports.Exercises(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /reports/exercise-progress?exercise=&metric=weight|reps
func (h *ReportController) ExerciseProgress(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Reports.ExerciseProgress(c.Request.Context(), uid, c.Query("exercise"), c.DefaultQuery("metric", "weight"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
