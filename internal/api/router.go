package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/dbpool"
	"github.com/municipallabs/corecrm/internal/middleware"
	"github.com/municipallabs/corecrm/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log             *logrus.Logger
	Pool            *dbpool.Pool
	Hub             *ws.Hub
	Messages        MessageReadService
	Analysis        AnalysisIngestService
	Audit           AuditReadService
	Sync            SyncTriggerService
	Profile         ProfileTriggerService
	Tasks           TaskInspector
	PrincipalLookup middleware.PrincipalLookup
	CORSOrigins     []string
	Version         string
}

// Router-level limits.
const (
	maxBodySize = 10 << 20 // 10 MB
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	threads := NewThreadHandler(deps.Messages, log)
	analysis := NewAnalysisHandler(deps.Analysis, log)
	audit := NewAuditHandler(deps.Audit, log)
	tasks := NewTaskHandler(deps.Sync, deps.Profile, deps.Tasks, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require authentication.
	bfGuard := middleware.NewBruteForceGuard(ctx, log)
	api.Use(middleware.BruteForceMiddleware(bfGuard))
	api.Use(middleware.AuthMiddleware(middleware.NewCachedPrincipalLookup(ctx, deps.PrincipalLookup), log, bfGuard))

	// Threads and messages (read-only, redacted).
	api.GET("/threads", threads.List)
	api.GET("/threads/:id", threads.Get)
	api.GET("/threads/:id/messages", threads.Messages)
	api.GET("/search", threads.Search)

	// Analysis ingest.
	api.POST("/messages/:id/analysis", analysis.Ingest)

	// Audit trail is read-only over HTTP; the log itself is append-only.
	api.GET("/audit", audit.Query)

	// Background tasks.
	api.POST("/sync", tasks.TriggerSync)
	api.POST("/profile/rebuild", tasks.TriggerProfileRebuild)
	api.GET("/tasks", tasks.Status)

	// WebSocket endpoint.
	api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.PrincipalLookup))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
