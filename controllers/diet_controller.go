package controllers

import (
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DietController struct {
	Svc *services.DietService
	Log logrus.FieldLogger
}

func NewDietController(svc *services.DietService, log logrus.FieldLogger) *DietController {
	return &DietController{Svc: svc, Log: log}
}

// GET /diet
func (h *DietController) List(c *gin.Context) {
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

// POST /diet
func (h *DietController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in services.DietInput
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

// PUT /diet/:id
func (h *DietController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var patch services.DietPatch
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

// DELETE /diet/:id
func (h *DietController) Delete(c *gin.Context) {
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
