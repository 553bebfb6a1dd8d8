package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vitatrack/ai"
	"vitatrack/middlewares"
	"vitatrack/services"
)

type SyncController struct {
	sync     *services.SyncService
	settings *services.SettingsService
	resolver *ai.Resolver
}

func NewSyncController(sync *services.SyncService, settings *services.SettingsService, resolver *ai.Resolver) *SyncController {
	return &SyncController{sync: sync, settings: settings, resolver: resolver}
}

// Trigger runs one sync attempt for the authenticated user.
func (ctl *SyncController) Trigger(c *gin.Context) {
	userID := middlewares.UserID(c)
	username := c.GetString("username")

	outcome, err := ctl.sync.SyncStudent(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "outcome": outcome})
		return
	}
	if outcome == services.SyncUpdated {
		middlewares.InvalidateUserCache(userID)
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

// RemoteProfile fetches the gym server's view of the student, read-only.
func (ctl *SyncController) RemoteProfile(c *gin.Context) {
	username := c.GetString("username")

	profile, err := ctl.sync.FetchRemoteProfile(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// TestGymConnection probes the configured gym server and reports the error
// verbatim.
func (ctl *SyncController) TestGymConnection(c *gin.Context) {
	if err := ctl.sync.TestConnection(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// TestAIConnection probes each configured provider with fresh health state
// and reports per-provider results, errors verbatim.
func (ctl *SyncController) TestAIConnection(c *gin.Context) {
	ctl.resolver.ResetHealth()

	providers := ai.Chain(ctl.settings.AIOptions(), ai.Profile{})
	results := make([]gin.H, 0, len(providers))
	for _, p := range providers {
		r := gin.H{"provider": p.Name(), "ok": true}
		if err := p.Available(c.Request.Context()); err != nil {
			r["ok"] = false
			r["error"] = err.Error()
		}
		results = append(results, r)
	}
	c.JSON(http.StatusOK, gin.H{"providers": results})
}
