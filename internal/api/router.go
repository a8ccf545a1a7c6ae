package api

import (
	"github.com/gin-gonic/gin"

	"github.com/coderRohan123/tempdescription/internal/api/handler"
	"github.com/coderRohan123/tempdescription/internal/api/middleware"
	"github.com/coderRohan123/tempdescription/internal/config"
	"github.com/coderRohan123/tempdescription/internal/logger"
	"github.com/coderRohan123/tempdescription/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	log *logger.Logger,
	cfg *config.ServerConfig,
	gemini *service.GeminiService,
	history *service.HistoryService,
	auth *service.AuthService,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	authHandler := handler.NewAuthHandler(auth)
	generateHandler := handler.NewGenerateHandler(gemini)
	historyHandler := handler.NewHistoryHandler(history)

	// Health check
	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		// Authentication
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/me", middleware.RequireAuth(auth), authHandler.Me)
		}

		// Generation and translation stay open: drafts work without an account
		api.POST("/generate-description", generateHandler.Generate)
		api.POST("/translate-description", generateHandler.Translate)

		// History requires authentication
		generations := api.Group("/generations", middleware.RequireAuth(auth))
		{
			generations.GET("", historyHandler.List)
			generations.POST("/save", historyHandler.Save)
			generations.DELETE("/:id", historyHandler.Delete)
		}
	}

	return r
}
