package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitatrack/middlewares"
	"vitatrack/services"
)

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

func (ctl *ReportController) Weekly(c *gin.Context) {
	userID := middlewares.UserID(c)

	report, err := ctl.reports.Generate(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrLimitReached) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
