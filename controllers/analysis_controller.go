package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitatrack/middlewares"
	"vitatrack/services"
)

type AnalysisController struct {
	analysis *services.AnalysisService
	food     *services.FoodService
}

func NewAnalysisController(analysis *services.AnalysisService, food *services.FoodService) *AnalysisController {
	return &AnalysisController{analysis: analysis, food: food}
}

type AnalyzeTextInput struct {
	Description string `json:"description" binding:"required"`
}

func (ctl *AnalysisController) AnalyzeText(c *gin.Context) {
	userID := middlewares.UserID(c)

	var input AnalyzeTextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := ctl.analysis.AnalyzeText(c.Request.Context(), userID, input.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": rec})
}

type AnalyzePhotoInput struct {
	Image string `json:"image" binding:"required"` // data:<mime>;base64,<data>
}

func (ctl *AnalysisController) AnalyzePhoto(c *gin.Context) {
	userID := middlewares.UserID(c)

	var input AnalyzePhotoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := ctl.analysis.AnalyzePhoto(c.Request.Context(), userID, input.Image)
	if err != nil {
		if errors.Is(err, services.ErrLimitReached) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": rec})
}

func (ctl *AnalysisController) History(c *gin.Context) {
	userID := middlewares.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	recs, err := ctl.analysis.History(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": recs})
}

func (ctl *AnalysisController) SearchFoods(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}
	if !ctl.food.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "food database not configured"})
		return
	}

	hits, err := ctl.food.SearchFoods(query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": hits})
}
