package controllers

import (
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"omitempty,username"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type FirebaseLoginInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

type UsernameInput struct {
	Username string `json:"username" binding:"required"`
}

type AuthController struct {
	Auth *services.AuthService
	Log  logrus.FieldLogger
}

func NewAuthController(auth *services.AuthService, log logrus.FieldLogger) *AuthController {
	return &AuthController{Auth: auth, Log: log}
}

// POST /auth/register
func (h *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Auth.Register(c.Request.Context(), input.Email, input.Password, input.Username)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /auth/login
func (h *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /auth/firebase-login
func (h *AuthController) FirebaseLogin(c *gin.Context) {
	var input FirebaseLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Auth.FirebaseLogin(c.Request.Context(), input.IDToken)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /auth/username
func (h *AuthController) SetUsername(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input UsernameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.Auth.SetUsername(c.Request.Context(), uid, input.Username)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
