package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/qianyuchang/chefnote/config"
	"github.com/qianyuchang/chefnote/controllers"
	auth "github.com/qianyuchang/chefnote/middleware"
)

func SetupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS Configuration
	origin := config.GetEnv("ALLOWED_ORIGIN", "http://localhost:5173")
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Reads
	r.Get("/recipes", controllers.GetRecipes)
	r.Get("/categories", controllers.GetCategories)
	r.Get("/settings", controllers.GetSettings)

	// Mutations (API key protected when CHEFNOTE_API_KEY is set)
	r.Group(func(r chi.Router) {
		r.Use(auth.APIKeyMiddleware)
		r.Post("/recipes", controllers.CreateRecipe)
		r.Put("/recipes/{id}", controllers.UpdateRecipe)
		r.Delete("/recipes/{id}", controllers.DeleteRecipe)
		r.Put("/categories", controllers.ReplaceCategories)
		r.Put("/settings", controllers.UpdateSettings)
	})

	// AI helpers
	r.Post("/ai/menu", controllers.ThemeMenu)
	r.Post("/ai/image/optimize", controllers.OptimizeImage)
	r.Post("/ai/image/generate", controllers.GenerateImage)

	// Server-Sent Events for background cover-image updates
	r.Get("/sse/images", ImageSSE)

	return r
}
