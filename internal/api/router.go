package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/trendmeme/internal/api/handler"
	"github.com/timmy/trendmeme/internal/api/middleware"
	"github.com/timmy/trendmeme/internal/config"
	"github.com/timmy/trendmeme/internal/logger"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	memes handler.MemeGenerator,
	trends handler.TrendsSource,
	log *logger.Logger,
	cfg *config.ServerConfig,
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
	memeHandler := handler.NewMemeHandler(memes)
	trendsHandler := handler.NewTrendsHandler(trends)

	// Health check
	r.GET("/health", healthHandler.Health)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/trends", trendsHandler.Trends)

		// Every method is routed so non-POST requests get a JSON 405.
		apiGroup.Any("/generate-meme", memeHandler.GenerateMeme)
	}

	return r
}
