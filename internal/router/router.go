package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lakbayapp/lakbay-backend/internal/config"
	"github.com/lakbayapp/lakbay-backend/internal/handler"
	"github.com/lakbayapp/lakbay-backend/internal/middleware"
	"github.com/lakbayapp/lakbay-backend/internal/response"
	"github.com/lakbayapp/lakbay-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Portal *handler.PortalHandler
	Hunt   *handler.HuntHandler
	Media  *handler.MediaHandler
	WS     *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Admin-Key", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve uploaded evidence photos statically with aggressive caching
	// (1 year); filenames are UUIDs so content never changes under a URL.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for session starts (30 per minute per IP) to keep a
	// misbehaving client from hammering the attempt lifecycle.
	startLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Player Group (JWT) ─────────────────────────────────────────
	playerAPI := router.Group("/api/v1")
	playerAPI.Use(middleware.RequireUserJWT(authService))
	{
		playerAPI.GET("/hunts", handlers.Portal.GetLobby)
		playerAPI.GET("/hunts/:hunt_id", handlers.Portal.GetHuntPayload)

		playerAPI.POST("/hunts/:hunt_id/start", startLimiter.Middleware(), handlers.Portal.StartHunt)
		playerAPI.POST("/hunts/:hunt_id/resume", handlers.Portal.ResumeHunt)
		playerAPI.POST("/hunts/:hunt_id/restart", startLimiter.Middleware(), handlers.Portal.RestartHunt)
		playerAPI.POST("/hunts/:hunt_id/abandon", handlers.Portal.AbandonHunt)

		playerAPI.GET("/hunts/:hunt_id/clue", handlers.Portal.GetCurrentClue)
		playerAPI.GET("/hunts/:hunt_id/progress", handlers.Portal.GetProgress)
		playerAPI.POST("/hunts/:hunt_id/hint", handlers.Portal.UseHint)
		playerAPI.POST("/hunts/:hunt_id/evidence", handlers.Portal.SubmitEvidence)

		playerAPI.GET("/rewards", handlers.Portal.GetRewards)
		playerAPI.POST("/media/evidence", handlers.Media.UploadEvidence)
	}

	// ─── 2. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/hunts/:hunt_id/watch", handlers.WS.HuntWatchStream)
	}

	// ─── 3. Operator Group (Admin Key) ─────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminKey(authService))
	{
		adminAPI.GET("/hunts", handlers.Hunt.ListHunts)
		adminAPI.POST("/hunts", handlers.Hunt.CreateHunt)
		adminAPI.GET("/hunts/:hunt_id", handlers.Hunt.GetHunt)
		adminAPI.PUT("/hunts/:hunt_id", handlers.Hunt.UpdateHunt)
		adminAPI.DELETE("/hunts/:hunt_id", handlers.Hunt.DeleteHunt)
		adminAPI.POST("/hunts/:hunt_id/publish", handlers.Hunt.PublishHunt)
		adminAPI.POST("/hunts/:hunt_id/archive", handlers.Hunt.ArchiveHunt)
		adminAPI.GET("/hunts/:hunt_id/results", handlers.Hunt.GetHuntResults)
	}

	return router
}
