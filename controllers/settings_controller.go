package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vitatrack/services"
)

// settableKeys is the allow-list for writes; unknown keys are rejected so
// typos do not silently create orphan settings.
var settableKeys = map[string]bool{
	services.SettingTheme:         true,
	services.SettingLanguage:      true,
	services.SettingAPIMode:       true,
	services.SettingGymServerURL:  true,
	services.SettingPreferLocalAI: true,
	services.SettingRemoteAPIKey:  true,
	services.SettingRemoteModel:   true,
	services.SettingLocalAIURL:    true,
	services.SettingLocalModel:    true,
	services.SettingLastCheckin:   true,
}

type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

func (ctl *SettingsController) Get(c *gin.Context) {
	out := gin.H{}
	for key := range settableKeys {
		// The API key is write-only; report presence, never the value.
		if key == services.SettingRemoteAPIKey {
			out["remote_api_key_set"] = ctl.settings.Get(key, "") != ""
			continue
		}
		out[key] = ctl.settings.Get(key, "")
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

type SettingInput struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

func (ctl *SettingsController) Set(c *gin.Context) {
	var input SettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !settableKeys[input.Key] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown setting key"})
		return
	}

	if err := ctl.settings.Set(input.Key, input.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "setting saved"})
}
