package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qianyuchang/chefnote/client/store"
	"github.com/qianyuchang/chefnote/models"
)

func seededStore(ids ...string) *store.Store {
	s := store.New()
	recipes := make([]models.RecipeData, len(ids))
	for i, id := range ids {
		recipes[i] = models.RecipeData{
			ID:        id,
			Title:     "recipe " + id,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		}
	}
	s.SetAll(recipes, []string{"炒菜", "甜品"}, models.SettingsData{})
	return s
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		token string
		view  View
		id    string
		ok    bool
	}{
		{"", ViewHome, "", true},
		{"/", ViewHome, "", true},
		{"#/", ViewHome, "", true},
		{"add", ViewAddRecipe, "", true},
		{"order", ViewOrderMode, "", true},
		{"categories", ViewCategoryManager, "", true},
		{"settings", ViewSettings, "", true},
		{"recipe/42", ViewRecipeDetail, "42", true},
		{"#/recipe/42", ViewRecipeDetail, "42", true},
		{"recipe/42/edit", ViewAddRecipe, "42", true},
		{"recipe/42/nonsense", ViewHome, "", false},
		{"recipe/", ViewHome, "", false},
		{"bogus", ViewHome, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			view, id, ok := ParseToken(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.view, view)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestNavigateResolveRoundTrip(t *testing.T) {
	st := seededStore("42")
	recipe, _ := st.RecipeByID("42")

	tests := []struct {
		name   string
		view   View
		entity *models.RecipeData
	}{
		{"home", ViewHome, nil},
		{"add", ViewAddRecipe, nil},
		{"edit", ViewAddRecipe, &recipe},
		{"detail", ViewRecipeDetail, &recipe},
		{"order", ViewOrderMode, nil},
		{"categories", ViewCategoryManager, nil},
		{"settings", ViewSettings, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewMemoryLocation("")
			r := New(loc, st)
			r.Navigate(tt.view, Forward, tt.entity)

			// A fresh router resolving the written token recovers the state.
			r2 := New(loc, st)
			r2.Resolve(Forward)
			assert.Equal(t, tt.view, r2.View())
			if tt.entity == nil {
				assert.Nil(t, r2.Selected())
			} else {
				require.NotNil(t, r2.Selected())
				assert.Equal(t, tt.entity.ID, r2.Selected().ID)
			}
		})
	}
}

func TestResolveUnknownIDRedirectsHome(t *testing.T) {
	st := seededStore("1")
	loc := NewMemoryLocation("recipe/42/edit")
	r := New(loc, st)

	r.Resolve(Forward)

	assert.Equal(t, ViewHome, r.View())
	assert.Nil(t, r.Selected())
	// Self-correcting: the external token is rewritten to root.
	assert.Equal(t, "", loc.Token())
}

func TestResolveKnownIDEdit(t *testing.T) {
	st := seededStore("42")
	loc := NewMemoryLocation("recipe/42/edit")
	r := New(loc, st)

	r.Resolve(Forward)

	assert.Equal(t, ViewAddRecipe, r.View())
	require.NotNil(t, r.Selected())
	assert.Equal(t, "42", r.Selected().ID)
	assert.Equal(t, "recipe/42/edit", loc.Token())
}

func TestDeepLinkRetriedAfterLoad(t *testing.T) {
	st := store.New() // not loaded yet
	loc := NewMemoryLocation("recipe/42")
	r := New(loc, st)

	// Before the first load the deep link is held, not abandoned: the token
	// survives so the post-load resolve can retry it.
	r.Resolve(Forward)
	assert.Equal(t, ViewHome, r.View())
	assert.Equal(t, "recipe/42", loc.Token())

	st.SetAll([]models.RecipeData{{ID: "42", Title: "mapo tofu"}}, nil, models.SettingsData{})
	r.Resolve(Forward)
	assert.Equal(t, ViewRecipeDetail, r.View())
	require.NotNil(t, r.Selected())
	assert.Equal(t, "42", r.Selected().ID)
}

func TestDeepLinkAbandonedAfterLoadedMiss(t *testing.T) {
	st := store.New()
	loc := NewMemoryLocation("recipe/42")
	r := New(loc, st)

	r.Resolve(Forward)
	st.SetAll(nil, nil, models.SettingsData{}) // loaded, still no recipe 42
	r.Resolve(Forward)

	assert.Equal(t, ViewHome, r.View())
	assert.Equal(t, "", loc.Token())
}

func TestResolveIdempotent(t *testing.T) {
	st := seededStore("42")
	loc := NewMemoryLocation("recipe/42")
	r := New(loc, st)

	r.Resolve(Forward)
	firstView, firstSel := r.View(), r.Selected()
	r.Resolve(Forward)

	assert.Equal(t, firstView, r.View())
	require.NotNil(t, r.Selected())
	assert.Equal(t, firstSel.ID, r.Selected().ID)
	assert.Equal(t, "recipe/42", loc.Token())
}

func TestNavigateSkipsRedundantHistoryEntries(t *testing.T) {
	st := seededStore("42")
	loc := NewMemoryLocation("")
	r := New(loc, st)

	r.Navigate(ViewOrderMode, Forward, nil)
	r.Navigate(ViewOrderMode, Forward, nil) // same token, no new entry

	assert.True(t, loc.Back())
	assert.Equal(t, "", loc.Token())
	assert.False(t, loc.Back())
}

func TestNavigateDetailWithoutEntityFallsBackHome(t *testing.T) {
	st := seededStore("42")
	loc := NewMemoryLocation("")
	r := New(loc, st)

	r.Navigate(ViewRecipeDetail, Forward, nil)

	assert.Equal(t, ViewHome, r.View())
	assert.Nil(t, r.Selected())
}

func TestSyncSelected(t *testing.T) {
	st := seededStore("42")
	recipe, _ := st.RecipeByID("42")
	loc := NewMemoryLocation("")
	r := New(loc, st)
	r.Navigate(ViewRecipeDetail, Forward, &recipe)

	recipe.Title = "renamed"
	r.SyncSelected(recipe)
	assert.Equal(t, "renamed", r.Selected().Title)

	// A different id leaves the selection alone.
	r.SyncSelected(models.RecipeData{ID: "other", Title: "nope"})
	assert.Equal(t, "renamed", r.Selected().Title)
}

func TestExternalBackResolvesBackward(t *testing.T) {
	st := seededStore("42")
	recipe, _ := st.RecipeByID("42")
	loc := NewMemoryLocation("")
	r := New(loc, st)

	r.Navigate(ViewRecipeDetail, Forward, &recipe)
	require.True(t, loc.Back())
	r.Resolve(Backward)

	assert.Equal(t, ViewHome, r.View())
	assert.Equal(t, Backward, r.Direction())
}
