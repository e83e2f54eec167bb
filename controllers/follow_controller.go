package controllers

import (
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FollowController struct {
	Follows *services.FollowService
	Log     logrus.FieldLogger
}

func NewFollowController(follows *services.FollowService, log logrus.FieldLogger) *FollowController {
	return &FollowController{Follows: follows, Log: log}
}

// POST /follow/:username
func (h *FollowController) Follow(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Follows.Follow(c.Request.Context(), uid, c.Param("username"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /follow/:username
func (h *FollowController) Unfollow(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Follows.Unfollow(c.Request.Context(), uid, c.Param("username"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /follow/followers/:username
func (h *FollowController) Followers(c *gin.Context) {
	out, err := h.Follows.GetFollowers(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /follow/followers/:username
func (h *FollowController) RemoveFollower(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Follows.RemoveFollower(c.Request.Context(), uid, c.Param("username"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /follow/following/:username
func (h *FollowController) Following(c *gin.Context) {
	out, err := h.Follows.GetFollowing(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /follow/count/:username
func (h *FollowController) Counts(c *gin.Context) {
	out, err := h.Follows.GetFollowCounts(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /follow/status/:username
func (h *FollowController) Status(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	following, err := h.Follows.IsFollowing(c.Request.Context(), uid, c.Param("username"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

// GET /follow/requests
func (h *FollowController) Requests(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Follows.GetFollowRequests(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /follow/requests/:id/accept
func (h *FollowController) Accept(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	out, err := h.Follows.AcceptFollowRequest(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /follow/requests/:id
func (h *FollowController) Reject(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	out, err := h.Follows.RejectFollowRequest(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
