package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitatrack/middlewares"
	"vitatrack/services"
)

type AuthController struct {
	auth     *services.AuthService
	activity *services.ActivityService
	sync     *services.SyncService
}

func NewAuthController(auth *services.AuthService, activity *services.ActivityService, sync *services.SyncService) *AuthController {
	return &AuthController{auth: auth, activity: activity, sync: sync}
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

func (ctl *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ctl.auth.Register(input.Username, input.Password, input.Name)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "user_id": user.ID})
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Platform string `json:"platform"`
}

func (ctl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := ctl.auth.Login(input.Username, input.Password, input.Platform)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		case errors.Is(err, services.ErrAccessBlocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account blocked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// Login also kicks off a background gym sync; the response never waits
	// on the gym server.
	if ctl.sync != nil {
		go func(username string) {
			_, _ = ctl.sync.SyncStudent(context.Background(), username)
		}(user.Username)
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
			"goal":     user.Goal,
			"points":   user.Points,
		},
	})
}

func (ctl *AuthController) Logout(c *gin.Context) {
	userID := middlewares.UserID(c)
	token := c.GetString("token")
	if err := ctl.activity.RemoveSession(userID, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	_ = ctl.activity.Record(userID, "account.logout", "")
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
