package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"real-estate-catalog/internal/config"
	"real-estate-catalog/internal/ratelimit"
)

// Router holds the handlers mounted by NewRouter
type Router struct {
	Properties *PropertyHandler
	Contacts   *ContactHandler
	Files      *FileHandler
	Admin      *AdminHandler
	Limiter    *ratelimit.RateLimiter
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(cfg *config.Config, logger *slog.Logger, h Router) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger, cfg.Logging.LogRequests))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", healthCheck)

	api := r.Group("/api")
	if h.Limiter != nil {
		api.Use(RateLimit(h.Limiter))
	}

	properties := api.Group("/properties")
	{
		properties.GET("", h.Properties.Search)
		properties.POST("", h.Properties.Create)
		properties.GET("/featured", h.Properties.Featured)
		properties.GET("/suggest", h.Properties.Suggest)
		properties.GET("/:id", h.Properties.Get)
		properties.PUT("/:id", h.Properties.Update)
		properties.DELETE("/:id", h.Properties.Delete)
		properties.POST("/:id/images", h.Properties.UploadImages)
	}

	api.GET("/files/:name", h.Files.Serve)

	contacts := api.Group("/contacts")
	{
		contacts.POST("", h.Contacts.Create)
		contacts.GET("", h.Contacts.List)
		contacts.PATCH("/:id/status", h.Contacts.UpdateStatus)
		contacts.DELETE("/:id", h.Contacts.Delete)
	}

	if h.Admin != nil {
		admin := api.Group("/admin")
		{
			admin.GET("/stats", h.Admin.GetStats)
			admin.GET("/deletions", h.Admin.GetDeleteLogs)
			admin.GET("/properties/:id/history", h.Admin.GetPropertyHistory)
			admin.GET("/changes/recent", h.Admin.GetRecentChanges)
			admin.POST("/cleanup/contacts", h.Admin.CleanupContacts)
			admin.POST("/search/reindex", h.Admin.Reindex)
			admin.POST("/cache/clear", h.Admin.ClearCache)
		}
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}
