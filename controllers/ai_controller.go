package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/qianyuchang/chefnote/database"
	"github.com/qianyuchang/chefnote/llm"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MenuThemeRequest struct {
	Recipes []llm.MenuDish `json:"recipes"`
	Hint    string         `json:"hint"`
	Count   int            `json:"count"`
}

type ImageOptimizeRequest struct {
	Image string `json:"image"`
}

type ImageGenerateRequest struct {
	Prompt string `json:"prompt"`
}

type ImageResponse struct {
	Image string `json:"image"`
}

// ThemeMenu builds a themed meal plan from the recipes the user put into
// order mode.
func ThemeMenu(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received menu theme request")

	var req MenuThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	if len(req.Recipes) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "No recipes provided"})
		return
	}

	client := llm.NewClient()
	theme, err := client.ThemeMenu(currentAIModel(), req.Recipes, req.Hint, req.Count)

	if err != nil {
		logger.Error("Failed to generate menu theme", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		return
	}

	logger.Info("Menu theme generated", "theme", theme.Theme, "dishes", len(theme.Dishes))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(theme)
}

// OptimizeImage runs a cover image through the image model synchronously.
// Large images uploaded with a recipe go through the background worker
// instead; this endpoint serves the in-form "optimize now" action.
func OptimizeImage(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received image optimize request")

	var req ImageOptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Image == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "No image provided"})
		return
	}

	client := llm.NewClient()
	optimized, err := client.OptimizeImage(currentImageModel(), req.Image)

	if err != nil {
		logger.Error("Failed to optimize image", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		return
	}

	logger.Info("Image optimized", "size", len(optimized))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ImageResponse{Image: optimized})
}

// GenerateImage creates a cover image from a text prompt.
func GenerateImage(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received image generate request")

	var req ImageGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Prompt == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Prompt is required"})
		return
	}

	client := llm.NewClient()
	image, err := client.GenerateImage(currentImageModel(), req.Prompt)

	if err != nil {
		logger.Error("Failed to generate image", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		return
	}

	logger.Info("Image generated", "prompt_length", len(req.Prompt))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ImageResponse{Image: image})
}

func currentAIModel() string {
	var settings models.UserSettings
	if err := database.DB.First(&settings).Error; err != nil {
		return ""
	}
	return settings.AIModel
}
