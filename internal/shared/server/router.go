package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"study-backend/internal/account"
	"study-backend/internal/admin"
	"study-backend/internal/artifacts"
	"study-backend/internal/auth"
	"study-backend/internal/documents"
	"study-backend/internal/reviews"
	"study-backend/internal/shared/config"
	"study-backend/internal/shared/metrics"
	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/usage"
	"study-backend/internal/users"
)

// RouterDeps carries every handler the router mounts. Nil handlers are
// skipped so partial wiring (tests, worker-only builds) still works.
type RouterDeps struct {
	Config config.Config

	UsersHandler     *users.Handler
	OAuth            *auth.Service
	DocumentsHandler *documents.Handler
	ArtifactsHandler *artifacts.Handler
	ReviewsHandler   *reviews.Handler
	UsageHandler     *usage.Handler
	AdminHandler     *admin.Handler
	AccountHandler   *account.Handler
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	engine.GET("/metrics", metrics.Handler())

	api := engine.Group("/api/v1")
	api.Use(middleware.Auth())

	limiter := middleware.NewRateLimiter(nil)
	go pruneLoop(limiter)
	cfg := rateLimitConfig()
	cfg.Limiter = limiter
	api.Use(middleware.RateLimit(cfg))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.OAuth != nil {
		deps.OAuth.RegisterRoutes(api)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(api)
	}
	if deps.ArtifactsHandler != nil {
		deps.ArtifactsHandler.RegisterRoutes(api)
	}
	if deps.ReviewsHandler != nil {
		deps.ReviewsHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}
	if deps.AdminHandler != nil {
		deps.AdminHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}

	return engine
}

// rateLimitConfig throttles the expensive document-creation endpoints
// harder than the rest of the API.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Limit: 120, Window: time.Minute},
			"INGEST":  {Limit: 10, Window: time.Minute},
			"AUTH":    {Limit: 20, Window: time.Minute},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			switch {
			case c.Request.Method == http.MethodPost && strings.HasPrefix(path, "/api/v1/documents"):
				return "INGEST"
			case strings.HasPrefix(path, "/api/v1/auth/"):
				return "AUTH"
			default:
				return "DEFAULT"
			}
		},
	}
}

// pruneLoop bounds limiter memory; windows older than the largest rule
// window carry no information.
func pruneLoop(limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		limiter.Prune(time.Minute)
	}
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
