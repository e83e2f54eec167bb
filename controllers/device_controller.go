package controllers

import (
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type toggleReq struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type DeviceController struct {
	Push *services.PushService
	Log  logrus.FieldLogger
}

func NewDeviceController(ps *services.PushService, log logrus.FieldLogger) *DeviceController {
	return &DeviceController{Push: ps, Log: log}
}

// POST /devices
func (dc *DeviceController) Register(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dev, err := dc.Push.RegisterDevice(c.Request.Context(), uid, req.Platform, req.Token)
	if err != nil {
		respondError(c, dc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"endpoint_arn": dev.EndpointARN})
}

// POST /user/notifications/toggle
func (dc *DeviceController) Toggle(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := dc.Push.SetEnabled(c.Request.Context(), uid, *req.Enabled); err != nil {
		respondError(c, dc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notifications updated", "enabled": *req.Enabled})
}
