package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/qianyuchang/chefnote/database"
	"github.com/qianyuchang/chefnote/jobs"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/models"
)

func recipeToData(r models.Recipe) models.RecipeData {
	var ingredients []models.Ingredient
	var steps []string
	var logs []models.CookingLog
	json.Unmarshal([]byte(r.Ingredients), &ingredients)
	json.Unmarshal([]byte(r.Steps), &steps)
	json.Unmarshal([]byte(r.Logs), &logs)

	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	if steps == nil {
		steps = []string{}
	}
	if logs == nil {
		logs = []models.CookingLog{}
	}

	return models.RecipeData{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		CoverImage:  r.CoverImage,
		Proficiency: r.Proficiency,
		SourceLink:  r.SourceLink,
		Ingredients: ingredients,
		Steps:       steps,
		Logs:        logs,
		CreatedAt:   r.CreatedAt,
	}
}

func dataToRecipe(d models.RecipeData) models.Recipe {
	ingredientsJSON, _ := json.Marshal(d.Ingredients)
	stepsJSON, _ := json.Marshal(d.Steps)
	logsJSON, _ := json.Marshal(d.Logs)

	return models.Recipe{
		ID:          d.ID,
		Title:       d.Title,
		Category:    d.Category,
		CoverImage:  d.CoverImage,
		Proficiency: d.Proficiency,
		SourceLink:  d.SourceLink,
		Ingredients: string(ingredientsJSON),
		Steps:       string(stepsJSON),
		Logs:        string(logsJSON),
		CreatedAt:   d.CreatedAt,
	}
}

// GetRecipes returns all recipes ordered by creation time, newest first.
func GetRecipes(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received get recipes request")

	var recipes []models.Recipe
	if err := database.DB.Order("created_at desc").Find(&recipes).Error; err != nil {
		logger.Error("Failed to fetch recipes", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch recipes"})
		return
	}

	response := make([]models.RecipeData, len(recipes))
	for i, rec := range recipes {
		response[i] = recipeToData(rec)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CreateRecipe stores a new recipe. The client normally assigns the id; when
// it is absent the server falls back to the same timestamp scheme.
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received create recipe request")

	var req models.RecipeData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
		return
	}

	if req.Title == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Title is required"})
		return
	}

	if req.ID == "" {
		req.ID = strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.Logs == nil {
		req.Logs = []models.CookingLog{}
	}

	var existing models.Recipe
	if err := database.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Recipe already exists"})
		return
	}

	recipe := dataToRecipe(req)
	if err := database.DB.Create(&recipe).Error; err != nil {
		logger.Error("Failed to create recipe", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create recipe"})
		return
	}

	logger.Info("Recipe created", "id", recipe.ID, "title", recipe.Title)
	maybeEnqueueImageJob(recipe)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(recipeToData(recipe))
}

// UpdateRecipe replaces a recipe wholesale. ID and CreatedAt are kept from
// the stored row; everything else comes from the request body.
func UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logger.Info("Received update recipe request", "id", id)

	var recipe models.Recipe
	if err := database.DB.First(&recipe, "id = ?", id).Error; err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Recipe not found"})
		return
	}

	var req models.RecipeData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
		return
	}

	if req.Title == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Title is required"})
		return
	}

	req.ID = recipe.ID
	req.CreatedAt = recipe.CreatedAt
	updated := dataToRecipe(req)
	updated.UpdatedAt = time.Now()

	if err := database.DB.Save(&updated).Error; err != nil {
		logger.Error("Failed to update recipe", "id", id, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to update recipe"})
		return
	}

	logger.Info("Recipe updated", "id", updated.ID, "title", updated.Title)
	maybeEnqueueImageJob(updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipeToData(updated))
}

// DeleteRecipe removes a recipe by id.
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logger.Info("Received delete recipe request", "id", id)

	var recipe models.Recipe
	if err := database.DB.First(&recipe, "id = ?", id).Error; err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Recipe not found"})
		return
	}

	if err := database.DB.Delete(&recipe).Error; err != nil {
		logger.Error("Failed to delete recipe", "id", id, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete recipe"})
		return
	}

	logger.Info("Recipe deleted", "id", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted", "id": id})
}

// maybeEnqueueImageJob queues background optimization for raw phone captures.
func maybeEnqueueImageJob(recipe models.Recipe) {
	if !jobs.NeedsOptimization(recipe.CoverImage) {
		return
	}
	jobs.GetWorker().Enqueue(recipe.ID, currentImageModel())
}

func currentImageModel() string {
	var settings models.UserSettings
	if err := database.DB.First(&settings).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Warn("Failed to load settings for image model", "error", err)
		}
		return ""
	}
	return settings.ImageModel
}
