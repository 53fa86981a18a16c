package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thanhng/foodchat/internal/api/handler"
	custommiddleware "github.com/thanhng/foodchat/internal/api/middleware"
	"github.com/thanhng/foodchat/internal/config"
	"github.com/thanhng/foodchat/internal/detector"
	"github.com/thanhng/foodchat/internal/domain"
	"github.com/thanhng/foodchat/internal/llm"
	"github.com/thanhng/foodchat/internal/repository/redis"
	"github.com/thanhng/foodchat/internal/service"
)

// NewRouter wires services, handlers and middleware into the HTTP
// router. redisClient may be nil; the recipe cache and rate limiter are
// then disabled.
func NewRouter(
	cfg *config.Config,
	store domain.SessionStore,
	engine llm.Engine,
	detectorClient *detector.Client,
	redisClient *redis.Client,
) http.Handler {
	var recipeCache service.RecipeCache
	var limiter *redis.RateLimiter
	if redisClient != nil {
		recipeCache = redis.NewRecipeCache(redisClient, cfg.Redis.RecipeCacheTTL)
		limiter = redis.NewRateLimiter(
			redisClient,
			cfg.Redis.RateLimit.RequestsPerMinute,
			cfg.Redis.RateLimit.Burst,
		)
	}

	detectionService := service.NewDetectionService(detectorClient, cfg.Detector.ConfidenceThreshold)
	recipeService := service.NewRecipeService(engine, recipeCache)
	chatService := service.NewChatService(store, engine, cfg.Chat.FallbackWordDelay)

	detectHandler := handler.NewDetectHandler(detectionService, cfg.Server.UploadDir)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	chatHandler := handler.NewChatHandler(chatService)
	healthHandler := handler.NewHealthHandler(engine, detectorClient, store, cfg.LLM.BaseURL)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Get("/classes", detectHandler.Classes)

	// Bounded request/response endpoints share a timeout and, when redis
	// is configured, the per-IP rate limit.
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
		if limiter != nil {
			r.Use(custommiddleware.NewRateLimitMiddleware(limiter).Limit)
		}

		r.Post("/detect", detectHandler.Detect)
		r.Post("/generate-recipe", recipeHandler.GenerateRecipe)
		r.Post("/generate-questions", recipeHandler.GenerateQuestions)
	})

	// Chat routes stay outside the timeout group: answer streams have no
	// fixed upper bound.
	r.Post("/start-chat", chatHandler.StartChat)
	r.Post("/chat-stream", chatHandler.Stream)
	r.Get("/get-chat-history/{sessionID}", chatHandler.History)
	r.Delete("/end-chat/{sessionID}", chatHandler.EndChat)

	return r
}
