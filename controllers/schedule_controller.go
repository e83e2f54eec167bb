package controllers

import (
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ScheduleController struct {
	Svc *services.ScheduleService
	Log logrus.FieldLogger
}

func NewScheduleController(svc *services.ScheduleService, log logrus.FieldLogger) *ScheduleController {
	return &ScheduleController{Svc: svc, Log: log}
}

// GET /schedule
func (h *ScheduleController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Svc.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /schedule
func (h *ScheduleController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in services.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /schedule/:id
func (h *ScheduleController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var patch services.SchedulePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Svc.Update(c.Request.Context(), uid, id, patch)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /schedule/:id
func (h *ScheduleController) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid, id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
