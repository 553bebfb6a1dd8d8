package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitatrack/middlewares"
	"vitatrack/services"
)

type RecipeController struct {
	recipes *services.RecipeService
}

func NewRecipeController(recipes *services.RecipeService) *RecipeController {
	return &RecipeController{recipes: recipes}
}

func (ctl *RecipeController) Create(c *gin.Context) {
	userID := middlewares.UserID(c)

	var input services.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := ctl.recipes.Create(userID, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": rec})
}

func (ctl *RecipeController) List(c *gin.Context) {
	userID := middlewares.UserID(c)
	recs, err := ctl.recipes.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recs})
}

func (ctl *RecipeController) Get(c *gin.Context) {
	userID := middlewares.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	rec, err := ctl.recipes.Get(userID, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": rec})
}

func (ctl *RecipeController) Delete(c *gin.Context) {
	userID := middlewares.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := ctl.recipes.Delete(userID, uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}
