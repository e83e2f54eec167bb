package controllers

import (
	"io"
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PrivacyInput struct {
	IsPrivate *bool `json:"isPrivate" binding:"required"`
}

type ProfileController struct {
	Profiles *services.ProfileService
	Follows  *services.FollowService
	Reports  *services.ReportService
	Log      logrus.FieldLogger
}

func NewProfileController(profiles *services.ProfileService, follows *services.FollowService, reports *services.ReportService, log logrus.FieldLogger) *ProfileController {
	return &ProfileController{Profiles: profiles, Follows: follows, Reports: reports, Log: log}
}

// GET /profile
func (h *ProfileController) GetProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.Profiles.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrUserNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /profile
func (h *ProfileController) UpdateProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var patch services.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Profiles.UpdateProfile(c.Request.Context(), uid, patch)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /profile/activity-heatmap
func (h *ProfileController) ActivityHeatmap(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Reports.ActivityHeatmap(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /profile/privacy
func (h *ProfileController) SetPrivacy(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input PrivacyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	accepted, err := h.Follows.SetPrivacy(c.Request.Context(), uid, *input.IsPrivate)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isPrivate": *input.IsPrivate, "acceptedRequests": accepted})
}

// GET /users/profile/:username
func (h *ProfileController) GetProfileByUsername(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.Profiles.GetProfileByUsername(c.Request.Context(), c.Param("username"), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /users/search?q=
func (h *ProfileController) Search(c *gin.Context) {
	out, err := h.Profiles.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /profile/upload-image (multipart field "file")
func (h *ProfileController) UploadImage(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.Log, services.InvalidInput("File not received"))
		return
	}
	if fh.Size > services.MaxImageBytes {
		respondError(c, h.Log, services.ErrFileTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	defer f.Close()

	// read one byte past the limit so an understated Size is still caught
	data, err := io.ReadAll(io.LimitReader(f, services.MaxImageBytes+1))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	out, err := h.Profiles.UploadImage(c.Request.Context(), uid, services.ImageUpload{Filename: fh.Filename, Data: data})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /profile/upload-image
func (h *ProfileController) DeleteImage(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Profiles.DeleteImage(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
