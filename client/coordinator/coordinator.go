// Package coordinator performs every write against the remote API and keeps
// the local store consistent with it.
//
// The write pattern is deliberate and must survive refactors: the local
// collection is mutated strictly after the remote call acknowledges, never
// before. A failed remote call therefore needs no rollback -- the store was
// never touched. The coordinator holds no queue and never retries; every
// failure is surfaced exactly once and the caller decides whether the user
// retries.
package coordinator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qianyuchang/chefnote/client/router"
	"github.com/qianyuchang/chefnote/client/store"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/models"
)

// API is the remote JSON store the coordinator writes to.
type API interface {
	CreateRecipe(ctx context.Context, r models.RecipeData) (*models.RecipeData, error)
	UpdateRecipe(ctx context.Context, r models.RecipeData) (*models.RecipeData, error)
	DeleteRecipe(ctx context.Context, id string) error
	ReplaceCategories(ctx context.Context, names []string) ([]string, error)
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.SettingsData, error)
}

// Navigator is the slice of the router the coordinator drives.
type Navigator interface {
	Navigate(view router.View, dir router.Direction, entity *models.RecipeData)
	SyncSelected(updated models.RecipeData)
}

// Notifier posts best-effort ephemeral status messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// ValidationError is raised before any remote call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// CascadeError reports which per-recipe updates of a category rename failed.
// The category list already shows the new label; the listed recipes still
// carry the old one until the user retries them.
type CascadeError struct {
	OldName   string
	NewName   string
	FailedIDs []string
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("renamed category %q to %q but %d recipe update(s) failed: %s",
		e.OldName, e.NewName, len(e.FailedIDs), strings.Join(e.FailedIDs, ", "))
}

// Coordinator wires the remote API, the local store, the router and the
// notification channel together.
type Coordinator struct {
	api    API
	store  *store.Store
	nav    Navigator
	notify Notifier
}

// New creates a coordinator.
func New(api API, s *store.Store, nav Navigator, notify Notifier) *Coordinator {
	return &Coordinator{api: api, store: s, nav: nav, notify: notify}
}

// newRecipeID assigns a creation id. High-resolution timestamps are unique
// enough for a single-user app and keep the collection's id ordering aligned
// with its created-at ordering.
func newRecipeID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// CreateRecipe validates the draft, assigns identity, creates the recipe
// remotely and, only on success, prepends the server-canonical entity to the
// local collection and navigates home. On failure the draft stays with the
// caller so the user can retry.
func (c *Coordinator) CreateRecipe(ctx context.Context, draft models.RecipeData) error {
	if err := validateRecipe(draft); err != nil {
		return err
	}

	draft.ID = newRecipeID()
	draft.CreatedAt = time.Now()
	draft.Logs = []models.CookingLog{}

	created, err := c.api.CreateRecipe(ctx, draft)
	if err != nil {
		logger.Error("Create recipe failed", "title", draft.Title, "error", err)
		c.notify.Error("Failed to save recipe")
		return fmt.Errorf("creating recipe: %w", err)
	}

	c.store.PrependRecipe(*created)
	c.notify.Success("Recipe saved")
	c.nav.Navigate(router.ViewHome, router.Backward, nil)
	return nil
}

// UpdateRecipe replaces a recipe wholesale: remote first, then the local
// collection and the selected entity if it is the one being viewed.
func (c *Coordinator) UpdateRecipe(ctx context.Context, updated models.RecipeData) error {
	if err := validateRecipe(updated); err != nil {
		return err
	}

	resp, err := c.api.UpdateRecipe(ctx, updated)
	if err != nil {
		logger.Error("Update recipe failed", "id", updated.ID, "error", err)
		c.notify.Error("Failed to save changes")
		return fmt.Errorf("updating recipe %s: %w", updated.ID, err)
	}

	c.store.ReplaceRecipe(*resp)
	c.nav.SyncSelected(*resp)
	return nil
}

// AppendLog adds a cooking log to the front of a recipe's log list. The
// remote contract is whole-entity replace, so this is an UpdateRecipe with
// one more log entry.
func (c *Coordinator) AppendLog(ctx context.Context, recipeID string, log models.CookingLog) error {
	if log.Image == "" && log.Note == "" {
		return &ValidationError{Msg: "a cooking log needs an image or a note"}
	}

	recipe, ok := c.store.RecipeByID(recipeID)
	if !ok {
		return &ValidationError{Msg: "recipe not found: " + recipeID}
	}

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Date.IsZero() {
		log.Date = time.Now()
	}

	recipe.Logs = append([]models.CookingLog{log}, recipe.Logs...)
	return c.UpdateRecipe(ctx, recipe)
}

// SetCoverImage replaces a recipe's cover image.
func (c *Coordinator) SetCoverImage(ctx context.Context, recipeID, image string) error {
	recipe, ok := c.store.RecipeByID(recipeID)
	if !ok {
		return &ValidationError{Msg: "recipe not found: " + recipeID}
	}
	recipe.CoverImage = image
	return c.UpdateRecipe(ctx, recipe)
}

// DeleteRecipe removes a recipe. The confirmation dialog is the view's
// concern; by the time this runs the intent is final. Only on remote success
// is the entity removed locally, then the app navigates home.
func (c *Coordinator) DeleteRecipe(ctx context.Context, id string) error {
	if err := c.api.DeleteRecipe(ctx, id); err != nil {
		logger.Error("Delete recipe failed", "id", id, "error", err)
		c.notify.Error("Failed to delete recipe")
		return fmt.Errorf("deleting recipe %s: %w", id, err)
	}

	c.store.RemoveRecipe(id)
	c.notify.Success("Recipe deleted")
	c.nav.Navigate(router.ViewHome, router.Backward, nil)
	return nil
}

// ReplaceCategories swaps the whole ordered list (reorder, add, remove).
// Callers batch drag-reorders and call this once on drop, not per drag-over
// event.
func (c *Coordinator) ReplaceCategories(ctx context.Context, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return &ValidationError{Msg: "category name cannot be empty"}
		}
		if seen[name] {
			return &ValidationError{Msg: "duplicate category: " + name}
		}
		seen[name] = true
	}

	echoed, err := c.api.ReplaceCategories(ctx, names)
	if err != nil {
		logger.Error("Replace categories failed", "error", err)
		c.notify.Error("Failed to save categories")
		return fmt.Errorf("replacing categories: %w", err)
	}

	c.store.SetCategories(echoed)
	return nil
}

// RenameCategory renames a label and cascades the change into every recipe
// carrying it. The category list is updated remotely first; a failure there
// aborts the whole rename. The per-recipe updates then run in parallel and
// are joined with an all-complete-or-report-which-failed policy: recipes
// whose update succeeded are committed locally even when siblings failed.
func (c *Coordinator) RenameCategory(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return &ValidationError{Msg: "category name cannot be empty"}
	}
	if oldName == newName {
		return nil
	}

	categories := c.store.Categories()
	renamed := make([]string, len(categories))
	found := false
	for i, name := range categories {
		switch name {
		case oldName:
			renamed[i] = newName
			found = true
		case newName:
			return &ValidationError{Msg: "category already exists: " + newName}
		default:
			renamed[i] = name
		}
	}
	if !found {
		return &ValidationError{Msg: "category not found: " + oldName}
	}

	echoed, err := c.api.ReplaceCategories(ctx, renamed)
	if err != nil {
		logger.Error("Category rename failed", "old", oldName, "new", newName, "error", err)
		c.notify.Error("Failed to rename category")
		return fmt.Errorf("renaming category %s: %w", oldName, err)
	}
	c.store.SetCategories(echoed)

	// Cascade: every recipe with the old label gets a whole-entity update
	// with the new one, all in parallel, awaiting all of them.
	affected := c.store.RecipesByCategory(oldName)
	if len(affected) == 0 {
		c.notify.Success("Category renamed")
		return nil
	}

	type result struct {
		recipe *models.RecipeData
		id     string
		err    error
	}
	results := make([]result, len(affected))

	var wg sync.WaitGroup
	for i, recipe := range affected {
		wg.Add(1)
		go func(i int, r models.RecipeData) {
			defer wg.Done()
			r.Category = newName
			resp, err := c.api.UpdateRecipe(ctx, r)
			results[i] = result{recipe: resp, id: r.ID, err: err}
		}(i, recipe)
	}
	wg.Wait()

	var committed []models.RecipeData
	var failed []string
	for _, res := range results {
		if res.err != nil {
			logger.Error("Cascade update failed", "recipe_id", res.id, "error", res.err)
			failed = append(failed, res.id)
			continue
		}
		committed = append(committed, *res.recipe)
	}

	c.store.ReplaceRecipes(committed)
	for _, r := range committed {
		c.nav.SyncSelected(r)
	}

	if len(failed) > 0 {
		c.notify.Error(fmt.Sprintf("Category renamed, but %d recipe(s) were not updated", len(failed)))
		return &CascadeError{OldName: oldName, NewName: newName, FailedIDs: failed}
	}

	c.notify.Success("Category renamed")
	return nil
}

// UpdateSettings merges a partial settings record remotely and mirrors the
// merged result locally.
func (c *Coordinator) UpdateSettings(ctx context.Context, patch models.SettingsPatch) error {
	merged, err := c.api.UpdateSettings(ctx, patch)
	if err != nil {
		logger.Error("Update settings failed", "error", err)
		c.notify.Error("Failed to save settings")
		return fmt.Errorf("updating settings: %w", err)
	}

	c.store.SetSettings(*merged)
	c.notify.Success("Settings saved")
	return nil
}

// validateRecipe rejects drafts that must never reach the remote API.
func validateRecipe(r models.RecipeData) error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Msg: "title is required"}
	}
	if len(r.Ingredients) == 0 {
		return &ValidationError{Msg: "at least one ingredient is required"}
	}
	if len(r.Steps) == 0 {
		return &ValidationError{Msg: "at least one step is required"}
	}
	if r.Proficiency < 1 || r.Proficiency > 5 {
		return &ValidationError{Msg: "proficiency must be between 1 and 5"}
	}
	return nil
}
