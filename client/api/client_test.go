package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qianyuchang/chefnote/models"
)

func TestListRecipes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/recipes", r.URL.Path)
		json.NewEncoder(w).Encode([]models.RecipeData{{ID: "1", Title: "mapo tofu"}})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	recipes, err := c.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "mapo tofu", recipes[0].Title)
}

func TestCreateRecipeSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sekrit", r.Header.Get("X-API-Key"))

		var got models.RecipeData
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "1", got.ID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	c := New(srv.URL, "sekrit")
	created, err := c.CreateRecipe(context.Background(), models.RecipeData{ID: "1", Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)
}

func TestUpdateRecipeEscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/recipes/a%2Fb", r.URL.EscapedPath())
		json.NewEncoder(w).Encode(models.RecipeData{ID: "a/b"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.UpdateRecipe(context.Background(), models.RecipeData{ID: "a/b"})
	require.NoError(t, err)
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Recipe not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	err := c.DeleteRecipe(context.Background(), "404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Recipe not found")
	assert.Contains(t, err.Error(), "404")
}

func TestReplaceCategoriesEcho(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var names []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&names))
		json.NewEncoder(w).Encode(names)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	echoed, err := c.ReplaceCategories(context.Background(), []string{"热菜", "甜品"})
	require.NoError(t, err)
	assert.Equal(t, []string{"热菜", "甜品"}, echoed)
}

func TestUpdateSettingsPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var patch map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		// Only the set field travels.
		assert.Contains(t, patch, "aiModel")
		assert.NotContains(t, patch, "imageModel")
		json.NewEncoder(w).Encode(models.SettingsData{AIModel: "gpt-4o", ImageModel: "dall-e-3"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	model := "gpt-4o"
	merged, err := c.UpdateSettings(context.Background(), models.SettingsPatch{AIModel: &model})
	require.NoError(t, err)
	assert.Equal(t, "dall-e-3", merged.ImageModel)
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, "")
	_, err := c.ListRecipes(ctx)
	require.Error(t, err)
}
