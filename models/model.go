package models

import (
	"time"
)

// Recipe is the persisted form of a recipe. Nested lists (ingredients, steps,
// cooking logs) are stored as JSON text columns; the wire shape is RecipeData.
//
// ID and CreatedAt are immutable after creation. Updates replace every other
// column wholesale -- the API contract is "replace whole entity", not patch.
type Recipe struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Category    string    `gorm:"size:255;index" json:"category"`
	CoverImage  string    `gorm:"type:text" json:"cover_image"`
	Proficiency int       `gorm:"default:1" json:"proficiency"`
	SourceLink  string    `gorm:"size:1024" json:"source_link"`
	Ingredients string    `gorm:"type:text" json:"ingredients"` // JSON array of {name, amount}
	Steps       string    `gorm:"type:text" json:"steps"`       // JSON array of strings
	Logs        string    `gorm:"type:text" json:"logs"`        // JSON array of CookingLog, newest first
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category is one entry of the ordered category list. Name doubles as
// identifier and display label; Position carries the user-chosen order.
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Position int    `gorm:"not null" json:"position"`
}

// UserSettings is a single-row table holding the app settings.
type UserSettings struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AIModel    string    `gorm:"size:255" json:"ai_model"`
	ImageModel string    `gorm:"size:255" json:"image_model"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Ingredient is a single ingredient with a free-form amount ("2 cups").
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// CookingLog is one diary entry attached to a recipe. At least one of Image
// and Note must be present. Logs are owned by their recipe and never
// referenced independently.
type CookingLog struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Image string    `json:"image,omitempty"`
	Note  string    `json:"note,omitempty"`
}

// RecipeData is the wire shape of a recipe as exchanged with clients.
type RecipeData struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Category    string       `json:"category"`
	CoverImage  string       `json:"coverImage,omitempty"`
	Proficiency int          `json:"proficiency"`
	SourceLink  string       `json:"sourceLink,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Logs        []CookingLog `json:"logs"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// SettingsData is the wire shape of the settings record.
type SettingsData struct {
	AIModel    string `json:"aiModel"`
	ImageModel string `json:"imageModel"`
}

// SettingsPatch is a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	AIModel    *string `json:"aiModel,omitempty"`
	ImageModel *string `json:"imageModel,omitempty"`
}
