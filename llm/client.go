package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qianyuchang/chefnote/config"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Choices []Choice `json:"choices"`
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	imageModel string
	client     *http.Client
}

func NewClient() *Client {
	return &Client{
		apiKey:     config.GetEnv("LLM_API_KEY", ""),
		baseURL:    config.GetEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		model:      config.GetEnv("LLM_MODEL", "gpt-4o-mini"),
		imageModel: config.GetEnv("IMAGE_MODEL", "dall-e-3"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Chat sends a chat completion request. An empty model uses the configured
// default; callers pass the model stored in the user settings when present.
func (c *Client) Chat(model string, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("LLM_API_KEY not configured")
	}
	if model == "" {
		model = c.model
	}

	reqBody := ChatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   1000,
		Temperature: 0.7,
	}

	body, err := c.post("/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (c *Client) post(path string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// MenuDish is one recipe offered to the menu planner.
type MenuDish struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// MenuTheme is the structured suggestion returned by ThemeMenu.
type MenuTheme struct {
	Theme       string   `json:"theme"`
	Description string   `json:"description"`
	Dishes      []string `json:"dishes"`
}

// ThemeMenu asks the model to pick a coherent meal from the given dishes and
// name the theme. The model must answer with strict JSON; anything around the
// JSON object is stripped before parsing.
func (c *Client) ThemeMenu(model string, dishes []MenuDish, hint string, count int) (*MenuTheme, error) {
	if len(dishes) == 0 {
		return nil, fmt.Errorf("no dishes provided")
	}
	if count <= 0 || count > len(dishes) {
		count = len(dishes)
	}

	var list string
	for _, d := range dishes {
		list += fmt.Sprintf("- id=%s title=%q category=%q\n", d.ID, d.Title, d.Category)
	}

	prompt := fmt.Sprintf(`From the following dishes:

%s
Pick up to %d dishes that form a coherent meal and give the meal a theme.`, list, count)
	if hint != "" {
		prompt += fmt.Sprintf(" The cook asked for: %s.", hint)
	}
	prompt += `

Answer with JSON only, in this exact shape:
{"theme": "...", "description": "...", "dishes": ["<id>", ...]}`

	messages := []Message{
		{Role: "system", Content: "You are a thoughtful home-cooking menu planner. You only answer with the requested JSON."},
		{Role: "user", Content: prompt},
	}

	raw, err := c.Chat(model, messages)
	if err != nil {
		return nil, err
	}

	var theme MenuTheme
	if err := json.Unmarshal([]byte(extractJSON(raw)), &theme); err != nil {
		return nil, fmt.Errorf("failed to parse menu theme: %w", err)
	}
	if theme.Theme == "" {
		return nil, fmt.Errorf("model returned an empty theme")
	}
	return &theme, nil
}

// extractJSON strips markdown fences and surrounding prose from a model
// answer, returning the outermost JSON object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt,omitempty"`
	Image          string `json:"image,omitempty"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// GenerateImage creates a cover image from a text prompt and returns it as a
// PNG data URI.
func (c *Client) GenerateImage(model, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("LLM_API_KEY not configured")
	}
	if prompt == "" {
		return "", fmt.Errorf("no prompt provided")
	}
	if model == "" {
		model = c.imageModel
	}

	body, err := c.post("/images/generations", imageRequest{
		Model:          model,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return "", err
	}
	return decodeImage(body)
}

// OptimizeImage sends a raw (usually oversized, user-captured) image to the
// image model for cleanup and compression and returns the optimized data URI.
func (c *Client) OptimizeImage(model, dataURI string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("LLM_API_KEY not configured")
	}
	if dataURI == "" {
		return "", fmt.Errorf("no image provided")
	}
	if model == "" {
		model = c.imageModel
	}

	body, err := c.post("/images/edits", imageRequest{
		Model:          model,
		Prompt:         "Clean up this food photo for a recipe card cover: crop to the dish, fix exposure, keep it natural.",
		Image:          dataURI,
		N:              1,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return "", err
	}
	return decodeImage(body)
}

func decodeImage(body []byte) (string, error) {
	var imgResp imageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return "", fmt.Errorf("failed to parse image response: %w", err)
	}
	if len(imgResp.Data) == 0 || imgResp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("no image data returned")
	}
	return "data:image/png;base64," + imgResp.Data[0].B64JSON, nil
}
