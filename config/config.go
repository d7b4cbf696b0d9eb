package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/qianyuchang/chefnote/logger"
)

// Config holds the optional file-based configuration. Every field has an
// environment-variable counterpart; the environment always wins.
type Config struct {
	Port          string `yaml:"port"`
	AllowedOrigin string `yaml:"allowed_origin"`
	APIKey        string `yaml:"api_key"`
	LLMBaseURL    string `yaml:"llm_base_url"`
	LLMModel      string `yaml:"llm_model"`
	ImageModel    string `yaml:"image_model"`
}

var fileConfig Config

// ReadFile reads the configuration from the YAML file at filePath.
// A missing file is not an error; the server runs on env vars alone.
func ReadFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No config file found, using env vars only", "path", filePath)
			return nil
		}
		logger.Error("unable to read config file", "path", filePath, "error", err)
		return err
	}

	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		logger.Error("unable to unmarshal YAML config", "path", filePath, "error", err)
		return err
	}

	logger.Info("Config file loaded", "path", filePath)
	return nil
}

// GetEnv returns the value for key from the environment, falling back to the
// config file and finally to the provided default.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := fromFile(key); v != "" {
		return v
	}
	return fallback
}

func fromFile(key string) string {
	switch key {
	case "PORT":
		return fileConfig.Port
	case "ALLOWED_ORIGIN":
		return fileConfig.AllowedOrigin
	case "CHEFNOTE_API_KEY":
		return fileConfig.APIKey
	case "LLM_BASE_URL":
		return fileConfig.LLMBaseURL
	case "LLM_MODEL":
		return fileConfig.LLMModel
	case "IMAGE_MODEL":
		return fileConfig.ImageModel
	}
	return ""
}
