package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitatrack/middlewares"
	"vitatrack/services"
)

type WeightController struct {
	weights *services.WeightService
	users   *services.UserService
}

func NewWeightController(weights *services.WeightService, users *services.UserService) *WeightController {
	return &WeightController{weights: weights, users: users}
}

type WeightInput struct {
	WeightKg float64 `json:"weight_kg" binding:"required,gt=0"`
	Date     string  `json:"date"` // optional, "2006-01-02"; defaults to today
}

func (ctl *WeightController) Log(c *gin.Context) {
	userID := middlewares.UserID(c)

	var input WeightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at := time.Now()
	if input.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		at = parsed
	}

	entry, err := ctl.weights.Upsert(userID, at, input.WeightKg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Keep the profile weight current when logging for today.
	if input.Date == "" {
		_, _ = ctl.users.UpdateProfile(userID, services.ProfileInput{WeightKg: input.WeightKg})
	}
	middlewares.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (ctl *WeightController) History(c *gin.Context) {
	userID := middlewares.UserID(c)
	entries, err := ctl.weights.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
