package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qianyuchang/chefnote/models"
)

func seeded() *Store {
	s := New()
	now := time.Now()
	s.SetAll([]models.RecipeData{
		{ID: "2", Title: "newer", Category: "炒菜", CreatedAt: now},
		{ID: "1", Title: "older", Category: "甜品", CreatedAt: now.Add(-time.Hour)},
	}, []string{"炒菜", "甜品"}, models.SettingsData{AIModel: "m"})
	return s
}

func TestLoadedFlag(t *testing.T) {
	s := New()
	assert.False(t, s.Loaded())
	s.SetAll(nil, nil, models.SettingsData{})
	assert.True(t, s.Loaded())
}

func TestRecipeByID(t *testing.T) {
	s := seeded()

	r, ok := s.RecipeByID("1")
	require.True(t, ok)
	assert.Equal(t, "older", r.Title)

	_, ok = s.RecipeByID("404")
	assert.False(t, ok)
}

func TestPrependKeepsOrder(t *testing.T) {
	s := seeded()
	s.PrependRecipe(models.RecipeData{ID: "3", Title: "newest", CreatedAt: time.Now()})

	recipes := s.Recipes()
	require.Len(t, recipes, 3)
	assert.Equal(t, "3", recipes[0].ID)
	assert.Equal(t, "2", recipes[1].ID)
}

func TestReplaceAndRemove(t *testing.T) {
	s := seeded()

	assert.True(t, s.ReplaceRecipe(models.RecipeData{ID: "1", Title: "renamed"}))
	r, _ := s.RecipeByID("1")
	assert.Equal(t, "renamed", r.Title)

	assert.False(t, s.ReplaceRecipe(models.RecipeData{ID: "404"}))

	assert.True(t, s.RemoveRecipe("1"))
	assert.Len(t, s.Recipes(), 1)
	assert.False(t, s.RemoveRecipe("1"))
}

func TestReplaceRecipesBatch(t *testing.T) {
	s := seeded()
	s.ReplaceRecipes([]models.RecipeData{
		{ID: "1", Title: "batch1"},
		{ID: "404", Title: "ignored"},
		{ID: "2", Title: "batch2"},
	})

	r1, _ := s.RecipeByID("1")
	r2, _ := s.RecipeByID("2")
	assert.Equal(t, "batch1", r1.Title)
	assert.Equal(t, "batch2", r2.Title)
	assert.Len(t, s.Recipes(), 2)
}

func TestRecipesByCategory(t *testing.T) {
	s := seeded()
	assert.Len(t, s.RecipesByCategory("炒菜"), 1)
	assert.Empty(t, s.RecipesByCategory("missing"))
}

func TestReadsReturnCopies(t *testing.T) {
	s := seeded()

	recipes := s.Recipes()
	recipes[0].Title = "mutated"
	fresh, _ := s.RecipeByID(recipes[0].ID)
	assert.NotEqual(t, "mutated", fresh.Title)

	cats := s.Categories()
	cats[0] = "mutated"
	assert.NotEqual(t, "mutated", s.Categories()[0])
}
