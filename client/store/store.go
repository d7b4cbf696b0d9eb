// Package store holds the client-side mirror of the remote collections.
//
// The store is the single owned state object of the app: recipes, the ordered
// category list and the settings record. Every mutation flows through the
// enumerated methods below, called either by the initial loader or by the
// mutation coordinator. Invariant: local mutation happens strictly after
// remote acknowledgment, never before. A failed remote call must leave the
// store byte-identical.
package store

import (
	"sync"

	"github.com/qianyuchang/chefnote/models"
)

// Store mirrors the remote collections in memory. Safe for concurrent reads.
type Store struct {
	mu         sync.RWMutex
	recipes    []models.RecipeData // created-at descending
	categories []string
	settings   models.SettingsData
	loaded     bool
}

// New creates an empty, not-yet-loaded store.
func New() *Store {
	return &Store{}
}

// SetAll installs the collections fetched on startup and marks the store
// loaded. Deep links captured before this point are re-resolved afterwards.
func (s *Store) SetAll(recipes []models.RecipeData, categories []string, settings models.SettingsData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append([]models.RecipeData(nil), recipes...)
	s.categories = append([]string(nil), categories...)
	s.settings = settings
	s.loaded = true
}

// Loaded reports whether the initial load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Recipes returns a copy of the recipe collection, newest first.
func (s *Store) Recipes() []models.RecipeData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RecipeData(nil), s.recipes...)
}

// RecipeByID looks a recipe up by id.
func (s *Store) RecipeByID(id string) (models.RecipeData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.recipes {
		if r.ID == id {
			return r, true
		}
	}
	return models.RecipeData{}, false
}

// RecipesByCategory returns the recipes carrying the given category label.
// Dangling labels are tolerated; a recipe whose category no longer exists is
// simply never returned here and shows up as uncategorized in filters.
func (s *Store) RecipesByCategory(category string) []models.RecipeData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.RecipeData
	for _, r := range s.recipes {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns a copy of the ordered category list.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.categories...)
}

// Settings returns the settings record.
func (s *Store) Settings() models.SettingsData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// PrependRecipe puts a freshly created recipe at the front of the collection,
// maintaining the created-at descending order.
func (s *Store) PrependRecipe(r models.RecipeData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append([]models.RecipeData{r}, s.recipes...)
}

// ReplaceRecipe swaps the entity with the matching id. Returns false if no
// recipe carries that id.
func (s *Store) ReplaceRecipe(r models.RecipeData) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recipes {
		if s.recipes[i].ID == r.ID {
			s.recipes[i] = r
			return true
		}
	}
	return false
}

// ReplaceRecipes applies a batch of whole-entity replacements. Used by the
// category-rename cascade to commit the succeeded subset in one step.
func (s *Store) ReplaceRecipes(batch []models.RecipeData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range batch {
		for i := range s.recipes {
			if s.recipes[i].ID == r.ID {
				s.recipes[i] = r
				break
			}
		}
	}
}

// RemoveRecipe deletes the entity with the matching id. Returns false if no
// recipe carries that id.
func (s *Store) RemoveRecipe(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
			return true
		}
	}
	return false
}

// SetCategories replaces the ordered category list.
func (s *Store) SetCategories(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]string(nil), names...)
}

// SetSettings replaces the settings record.
func (s *Store) SetSettings(settings models.SettingsData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}
