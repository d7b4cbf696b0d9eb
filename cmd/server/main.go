package main

import (
	"net/http"

	"github.com/joho/godotenv"

	"github.com/qianyuchang/chefnote/config"
	"github.com/qianyuchang/chefnote/database"
	"github.com/qianyuchang/chefnote/jobs"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/routes"
)

func main() {
	// Initialize Structured Logger
	logger.Init()

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	// Optional YAML config file
	if err := config.ReadFile(config.GetEnv("CHEFNOTE_CONFIG", "chefnote.yaml")); err != nil {
		logger.Warn("Config file ignored", "error", err)
	}

	// Initialize DB
	database.InitDB()

	// Start background cover-image worker
	jobs.GetWorker()

	// Setup Router
	r := routes.SetupRouter()

	port := config.GetEnv("PORT", "8080")
	logger.Info("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Error("Server failed to start", "error", err)
	}
}
