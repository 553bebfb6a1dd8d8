package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitatrack/ai"
	"vitatrack/middlewares"
	"vitatrack/services"
)

type PlanController struct {
	plans *services.PlanService
	users *services.UserService
}

func NewPlanController(plans *services.PlanService, users *services.UserService) *PlanController {
	return &PlanController{plans: plans, users: users}
}

func (ctl *PlanController) GenerateWellnessPlan(c *gin.Context) {
	userID := middlewares.UserID(c)

	plan, err := ctl.plans.GenerateWellnessPlan(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ai.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	days, err := plan.Days()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middlewares.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"plan_id": plan.ID, "source": plan.Source, "days": days})
}

func (ctl *PlanController) GetWellnessPlan(c *gin.Context) {
	userID := middlewares.UserID(c)

	plan, err := ctl.plans.ActivePlan(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if plan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active plan"})
		return
	}
	days, err := plan.Days()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	completed, err := ctl.plans.CompletedWorkouts(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doneDays := make([]int, 0, len(completed))
	for _, cw := range completed {
		doneDays = append(doneDays, cw.DayIndex)
	}

	c.JSON(http.StatusOK, gin.H{
		"plan_id":   plan.ID,
		"source":    plan.Source,
		"days":      days,
		"completed": doneDays,
	})
}

func (ctl *PlanController) CompleteWorkout(c *gin.Context) {
	userID := middlewares.UserID(c)

	dayIndex, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day index"})
		return
	}

	done, first, err := ctl.plans.CompleteWorkout(userID, dayIndex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only the first completion of a day earns points.
	if first {
		_, _ = ctl.users.AddPoints(userID, 10, "workout completed")
	}
	middlewares.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"completed": done, "points_awarded": first})
}

func (ctl *PlanController) GenerateMealPlan(c *gin.Context) {
	userID := middlewares.UserID(c)

	plan, err := ctl.plans.GenerateMealPlan(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ai.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	meals, err := plan.Meals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middlewares.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{
		"plan_id":        plan.ID,
		"source":         plan.Source,
		"total_calories": plan.TotalCalories,
		"meals":          meals,
	})
}

func (ctl *PlanController) MealPlanHistory(c *gin.Context) {
	userID := middlewares.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	plans, err := ctl.plans.MealPlanHistory(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
