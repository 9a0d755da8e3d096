package api

import (
	"github.com/gin-gonic/gin"

	"github.com/memelab/memelab/internal/api/handler"
	"github.com/memelab/memelab/internal/api/middleware"
	"github.com/memelab/memelab/internal/logger"
)

// RouterConfig controls router-level behavior.
type RouterConfig struct {
	Mode        string
	CORS        middleware.CORSConfig
	OfflineDir  string // local directory served under OfflinePath; empty disables
	OfflinePath string
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(cfg RouterConfig, memeHandler *handler.MemeHandler, log *logger.Logger) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler()
	r.GET("/health", healthHandler.Health)

	if cfg.OfflineDir != "" {
		path := cfg.OfflinePath
		if path == "" {
			path = "/static/offline"
		}
		r.Static(path, cfg.OfflineDir)
	}

	api := r.Group("/api")
	{
		memes := api.Group("/memes")
		{
			memes.GET("/trending", memeHandler.Trending)
			memes.POST("/analyze", memeHandler.Analyze)
			memes.POST("/remix", memeHandler.Remix)
			memes.GET("", memeHandler.ListStored)
			memes.POST("", memeHandler.CreateStored)
		}
	}

	return r
}
