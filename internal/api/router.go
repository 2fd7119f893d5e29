package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mealstash/recipe-api-be/internal/api/handlers"
	"github.com/mealstash/recipe-api-be/internal/auth"
	"github.com/mealstash/recipe-api-be/internal/services"
	"github.com/mealstash/recipe-api-be/internal/websocket"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Hub         *websocket.Hub
	Users       services.UserServiceProvider
	Tags        services.TagServiceProvider
	Ingredients services.IngredientServiceProvider
	Recipes     services.RecipeServiceProvider
	Events      services.EventServiceProvider
	JWTSecret   []byte
	TokenTTL    time.Duration
	MediaPath   string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users, deps.JWTSecret, deps.TokenTTL)
	tagHandler := handlers.NewTagHandler(deps.Tags)
	ingredientHandler := handlers.NewIngredientHandler(deps.Ingredients)
	recipeHandler := handlers.NewRecipeHandler(deps.Recipes)
	eventHandler := handlers.NewEventHandler(deps.Events)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.JWTSecret)

	// Uploaded recipe images
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(deps.MediaPath))))

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/user/create", userHandler.Create)
		r.Post("/user/token", userHandler.Token)

		// Live activity feed (token authenticated inside the handler)
		r.Get("/ws", wsHandler.Serve)

		// Everything else requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.JWTSecret))

			r.Get("/user/me", userHandler.Me)
			r.Get("/events", eventHandler.Recent)

			r.Route("/recipe", func(r chi.Router) {
				r.Route("/tags", func(r chi.Router) {
					r.Get("/", tagHandler.List)
					r.Post("/", tagHandler.Create)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", tagHandler.Get)
						r.Put("/", tagHandler.Update)
						r.Patch("/", tagHandler.Update)
						r.Delete("/", tagHandler.Delete)
					})
				})

				r.Route("/ingredients", func(r chi.Router) {
					r.Get("/", ingredientHandler.List)
					r.Post("/", ingredientHandler.Create)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", ingredientHandler.Get)
						r.Put("/", ingredientHandler.Update)
						r.Patch("/", ingredientHandler.Update)
						r.Delete("/", ingredientHandler.Delete)
					})
				})

				r.Route("/recipes", func(r chi.Router) {
					r.Get("/", recipeHandler.List)
					r.Post("/", recipeHandler.Create)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", recipeHandler.Get)
						r.Put("/", recipeHandler.Update)
						r.Patch("/", recipeHandler.Update)
						r.Delete("/", recipeHandler.Delete)
						r.Post("/image", recipeHandler.UploadImage)
					})
				})
			})
		})
	})

	return r
}
