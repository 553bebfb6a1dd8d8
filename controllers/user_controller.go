package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitatrack/middlewares"
	"vitatrack/services"
	"vitatrack/utils"
)

type UserController struct {
	users    *services.UserService
	activity *services.ActivityService
}

func NewUserController(users *services.UserService, activity *services.ActivityService) *UserController {
	return &UserController{users: users, activity: activity}
}

func (ctl *UserController) GetProfile(c *gin.Context) {
	userID := middlewares.UserID(c)
	user, err := ctl.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if _, err := ctl.users.EnsureUsageWindows(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	bmi, _ := utils.CalculateBMI(user.HeightCm, user.WeightKg)
	c.JSON(http.StatusOK, gin.H{
		"id":                    user.ID,
		"username":              user.Username,
		"name":                  user.Name,
		"age":                   user.Age,
		"gender":                user.Gender,
		"weight_kg":             user.WeightKg,
		"height_cm":             user.HeightCm,
		"goal":                  user.Goal,
		"bmi":                   bmi,
		"bmi_category":          utils.BMICategory(bmi),
		"daily_calories":        utils.DailyCalories(user.WeightKg, user.HeightCm, user.Age, user.Gender, string(user.Goal)),
		"points":                user.Points,
		"discipline_score":      user.DisciplineScore,
		"photos_analyzed_today": user.PhotosAnalyzedToday,
		"reports_this_week":     user.ReportsThisWeek,
		"biometric_enabled":     user.BiometricEnabled,
		"notifications_enabled": user.NotificationsEnabled,
		"access_blocked":        user.AccessBlocked,
		"blocked_reason":        user.BlockedReason,
		"gym_id":                user.GymID,
		"gym_role":              user.GymRole,
		"last_gym_sync_at":      user.LastGymSyncAt,
	})
}

func (ctl *UserController) UpdateProfile(c *gin.Context) {
	userID := middlewares.UserID(c)

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ctl.users.UpdateProfile(userID, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middlewares.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "goal": user.Goal})
}

type ChallengeInput struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
	Points      int    `json:"points"`
}

func (ctl *UserController) CompleteChallenge(c *gin.Context) {
	userID := middlewares.UserID(c)

	var input ChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Points <= 0 {
		input.Points = 10
	}

	user, err := ctl.users.CompleteChallenge(userID, input.ChallengeID, input.Points)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middlewares.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{
		"points":           user.Points,
		"discipline_score": user.DisciplineScore,
	})
}

func (ctl *UserController) Activity(c *gin.Context) {
	userID := middlewares.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := ctl.activity.List(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

func (ctl *UserController) Sessions(c *gin.Context) {
	userID := middlewares.UserID(c)
	sessions, err := ctl.activity.Sessions(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

type DeleteAccountInput struct {
	Purge bool `json:"purge"`
}

func (ctl *UserController) DeleteAccount(c *gin.Context) {
	userID := middlewares.UserID(c)

	// Body is optional; no body means anonymize rather than purge.
	var input DeleteAccountInput
	_ = c.ShouldBindJSON(&input)

	if err := ctl.users.DeleteAccount(userID, input.Purge); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middlewares.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
