// Package api is the typed HTTP client for the ChefNote JSON store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/qianyuchang/chefnote/llm"
	"github.com/qianyuchang/chefnote/models"
)

// Client talks to the ChefNote server. The timeout is generous because AI
// helper calls sit behind the same client.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a client for the server at baseURL. apiKey may be empty when
// the server runs unprotected.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// ListRecipes fetches all recipes, newest first.
func (c *Client) ListRecipes(ctx context.Context) ([]models.RecipeData, error) {
	var recipes []models.RecipeData
	if err := c.do(ctx, http.MethodGet, "/recipes", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// CreateRecipe stores a new recipe and returns the server-canonical entity.
func (c *Client) CreateRecipe(ctx context.Context, r models.RecipeData) (*models.RecipeData, error) {
	var created models.RecipeData
	if err := c.do(ctx, http.MethodPost, "/recipes", r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRecipe replaces a recipe wholesale.
func (c *Client) UpdateRecipe(ctx context.Context, r models.RecipeData) (*models.RecipeData, error) {
	var updated models.RecipeData
	path := "/recipes/" + url.PathEscape(r.ID)
	if err := c.do(ctx, http.MethodPut, path, r, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRecipe removes a recipe by id.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id), nil, nil)
}

// ListCategories fetches the ordered category list.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// ReplaceCategories swaps the whole ordered list and returns the echo.
func (c *Client) ReplaceCategories(ctx context.Context, names []string) ([]string, error) {
	var echoed []string
	if err := c.do(ctx, http.MethodPut, "/categories", names, &echoed); err != nil {
		return nil, err
	}
	return echoed, nil
}

// GetSettings fetches the settings record.
func (c *Client) GetSettings(ctx context.Context) (*models.SettingsData, error) {
	var settings models.SettingsData
	if err := c.do(ctx, http.MethodGet, "/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings merges a partial settings record and returns the merged one.
func (c *Client) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.SettingsData, error) {
	var merged models.SettingsData
	if err := c.do(ctx, http.MethodPut, "/settings", patch, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ThemeMenu asks the server's AI helper for a themed meal plan.
func (c *Client) ThemeMenu(ctx context.Context, dishes []llm.MenuDish, hint string, count int) (*llm.MenuTheme, error) {
	req := struct {
		Recipes []llm.MenuDish `json:"recipes"`
		Hint    string         `json:"hint"`
		Count   int            `json:"count"`
	}{Recipes: dishes, Hint: hint, Count: count}

	var theme llm.MenuTheme
	if err := c.do(ctx, http.MethodPost, "/ai/menu", req, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// GenerateImage asks the server's AI helper for a cover image.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	req := struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt}
	var resp struct {
		Image string `json:"image"`
	}
	if err := c.do(ctx, http.MethodPost, "/ai/image/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Image, nil
}

// OptimizeImage runs an image payload through the server's AI helper.
func (c *Client) OptimizeImage(ctx context.Context, image string) (string, error) {
	req := struct {
		Image string `json:"image"`
	}{Image: image}
	var resp struct {
		Image string `json:"image"`
	}
	if err := c.do(ctx, http.MethodPost, "/ai/image/optimize", req, &resp); err != nil {
		return "", err
	}
	return resp.Image, nil
}
