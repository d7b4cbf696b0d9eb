package controllers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/qianyuchang/chefnote/database"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/models"
)

// GetCategories returns the ordered category list.
func GetCategories(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received get categories request")

	var categories []models.Category
	if err := database.DB.Order("position asc").Find(&categories).Error; err != nil {
		logger.Error("Failed to fetch categories", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch categories"})
		return
	}

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

// ReplaceCategories swaps the whole ordered list. The client always sends the
// full list; reorder, add, remove and rename all arrive through here.
func ReplaceCategories(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received replace categories request")

	var names []string
	if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
		return
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Category name cannot be empty"})
			return
		}
		if seen[name] {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Duplicate category: " + name})
			return
		}
		seen[name] = true
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
			return err
		}
		for i, name := range names {
			if err := tx.Create(&models.Category{Name: name, Position: i}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to replace categories", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to save categories"})
		return
	}

	logger.Info("Categories replaced", "count", len(names))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}
