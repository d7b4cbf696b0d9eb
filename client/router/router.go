// Package router maps the external location token (the URL hash of the web
// app) to the active view and selected recipe, in both directions.
package router

import (
	"net/url"
	"strings"
	"sync"

	"github.com/qianyuchang/chefnote/client/store"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/models"
)

// View is one named full-screen UI mode.
type View int

const (
	ViewHome View = iota
	ViewAddRecipe
	ViewOrderMode
	ViewCategoryManager
	ViewRecipeDetail
	ViewSettings
)

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewAddRecipe:
		return "add-recipe"
	case ViewOrderMode:
		return "order-mode"
	case ViewCategoryManager:
		return "category-manager"
	case ViewRecipeDetail:
		return "recipe-detail"
	case ViewSettings:
		return "settings"
	}
	return "unknown"
}

// Direction is transition presentation metadata only; it never affects
// resolution correctness.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Location abstracts the external, user-bookmarkable token (a hash fragment
// in the web app). Push adds a history entry; Replace rewrites the current
// one, used for the self-correcting redirect so broken deep links do not
// pollute history.
type Location interface {
	Token() string
	Push(token string)
	Replace(token string)
}

// Router is the view-stack state machine. All methods are called from the UI
// event loop; the mutex only guards against the loader goroutine triggering a
// re-resolve while a navigation is in flight.
type Router struct {
	mu    sync.Mutex
	loc   Location
	store *store.Store

	view      View
	selected  *models.RecipeData
	direction Direction

	// A deep link that failed to resolve before the first data load is kept
	// and retried once after the load completes, instead of being abandoned.
	pendingRetry bool
}

// New creates a router in the HOME state. Call Resolve to pick up the
// location captured at startup.
func New(loc Location, s *store.Store) *Router {
	return &Router{loc: loc, store: s, view: ViewHome}
}

// View returns the active view.
func (r *Router) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Selected returns the selected recipe, or nil.
func (r *Router) Selected() *models.RecipeData {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selected == nil {
		return nil
	}
	cp := *r.selected
	return &cp
}

// Direction returns the direction of the last transition.
func (r *Router) Direction() Direction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.direction
}

// Resolve parses the current location token and sets the router state.
// External token changes (back/forward navigation) and the completion of the
// initial data load both funnel through here. Resolving the same token twice
// against unchanged data yields the same state; the only side effect is the
// self-correcting rewrite of an unresolvable token.
func (r *Router) Resolve(dir Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := r.loc.Token()
	view, id, ok := ParseToken(token)
	if !ok {
		logger.Warn("Unrecognized location token, falling back to home", "token", token)
		r.fallbackHome()
		return
	}

	if id == "" {
		r.view = view
		r.selected = nil
		r.direction = dir
		r.pendingRetry = false
		return
	}

	recipe, found := r.store.RecipeByID(id)
	if !found {
		if !r.store.Loaded() && !r.pendingRetry {
			// The token was captured before data existed. Hold the HOME
			// state without rewriting the token; the shell re-resolves once
			// the load completes and the deep link gets its one retry.
			r.pendingRetry = true
			r.view = ViewHome
			r.selected = nil
			r.direction = dir
			logger.Debug("Deep link seen before first load, will retry", "token", token)
			return
		}
		logger.Warn("Location token references unknown recipe, redirecting home", "id", id)
		r.fallbackHome()
		return
	}

	r.view = view
	r.selected = &recipe
	r.direction = dir
	r.pendingRetry = false
}

// fallbackHome is the self-correcting redirect: HOME state, token rewritten
// to root without a new history entry. Caller holds the lock.
func (r *Router) fallbackHome() {
	r.view = ViewHome
	r.selected = nil
	r.direction = Backward
	r.pendingRetry = false
	if r.loc.Token() != "" {
		r.loc.Replace("")
	}
}

// Navigate sets the router state and writes the canonical token for it,
// pushing a history entry only when the token actually changes.
//
// RECIPE_DETAIL and edit-mode ADD_RECIPE require an entity; navigating there
// without one is a caller bug and degrades to HOME rather than crashing.
func (r *Router) Navigate(view View, dir Direction, entity *models.RecipeData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if view == ViewRecipeDetail && entity == nil {
		logger.Error("Navigate to recipe detail without entity, going home")
		view = ViewHome
	}

	r.view = view
	r.direction = dir
	if entity != nil {
		cp := *entity
		r.selected = &cp
	} else {
		r.selected = nil
	}
	r.pendingRetry = false

	token := canonicalToken(view, r.selected)
	if token != r.loc.Token() {
		r.loc.Push(token)
	}
}

// SyncSelected refreshes the selected entity after a mutation when the
// updated recipe is the one being viewed.
func (r *Router) SyncSelected(updated models.RecipeData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selected != nil && r.selected.ID == updated.ID {
		r.selected = &updated
	}
}

// ParseToken parses a location token into a view and an optional recipe id.
// The grammar:
//
//	""                  -> HOME
//	"add"               -> ADD_RECIPE (create mode)
//	"order"             -> ORDER_MODE
//	"categories"        -> CATEGORY_MANAGER
//	"settings"          -> SETTINGS
//	"recipe/<id>"       -> RECIPE_DETAIL
//	"recipe/<id>/edit"  -> ADD_RECIPE (edit mode)
//
// Leading "#" and "/" are stripped, so both raw hashes ("#/recipe/42") and
// bare tokens parse the same way.
func ParseToken(token string) (View, string, bool) {
	t := strings.TrimPrefix(token, "#")
	t = strings.Trim(t, "/")

	switch t {
	case "":
		return ViewHome, "", true
	case "add":
		return ViewAddRecipe, "", true
	case "order":
		return ViewOrderMode, "", true
	case "categories":
		return ViewCategoryManager, "", true
	case "settings":
		return ViewSettings, "", true
	}

	parts := strings.Split(t, "/")
	if parts[0] != "recipe" {
		return ViewHome, "", false
	}
	switch len(parts) {
	case 2:
		id, err := url.PathUnescape(parts[1])
		if err != nil || id == "" {
			return ViewHome, "", false
		}
		return ViewRecipeDetail, id, true
	case 3:
		if parts[2] != "edit" {
			return ViewHome, "", false
		}
		id, err := url.PathUnescape(parts[1])
		if err != nil || id == "" {
			return ViewHome, "", false
		}
		return ViewAddRecipe, id, true
	}
	return ViewHome, "", false
}

// canonicalToken is the inverse of ParseToken for every reachable state.
func canonicalToken(view View, entity *models.RecipeData) string {
	switch view {
	case ViewAddRecipe:
		if entity != nil {
			return "recipe/" + url.PathEscape(entity.ID) + "/edit"
		}
		return "add"
	case ViewOrderMode:
		return "order"
	case ViewCategoryManager:
		return "categories"
	case ViewSettings:
		return "settings"
	case ViewRecipeDetail:
		if entity != nil {
			return "recipe/" + url.PathEscape(entity.ID)
		}
		return ""
	default:
		return ""
	}
}

// Token returns the canonical token for the current state.
func (r *Router) Token() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return canonicalToken(r.view, r.selected)
}
