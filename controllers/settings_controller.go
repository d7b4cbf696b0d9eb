package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/qianyuchang/chefnote/database"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/models"
)

// GetSettings fetches the settings record.
func GetSettings(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received get settings request")

	var settings models.UserSettings
	result := database.DB.First(&settings)

	if result.Error != nil {
		// Return empty settings if none stored yet
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.SettingsData{})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.SettingsData{
		AIModel:    settings.AIModel,
		ImageModel: settings.ImageModel,
	})
}

// UpdateSettings merges a partial settings record into the stored one and
// echoes the merged result.
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received update settings request")

	var patch models.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
		return
	}

	var settings models.UserSettings
	result := database.DB.First(&settings)

	if patch.AIModel != nil {
		settings.AIModel = *patch.AIModel
	}
	if patch.ImageModel != nil {
		settings.ImageModel = *patch.ImageModel
	}

	var err error
	if result.Error != nil {
		err = database.DB.Create(&settings).Error
	} else {
		err = database.DB.Save(&settings).Error
	}
	if err != nil {
		logger.Error("Failed to save settings", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to save settings"})
		return
	}

	logger.Info("Settings saved", "ai_model", settings.AIModel, "image_model", settings.ImageModel)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.SettingsData{
		AIModel:    settings.AIModel,
		ImageModel: settings.ImageModel,
	})
}
