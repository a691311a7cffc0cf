package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/server/respond"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupAnalyze = "ANALYZE"
)

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers the router mounts under /api/v1.
type RouterDeps struct {
	Config   config.Config
	Handlers []RouteRegistrar
	// Now overrides the rate limiter clock. Nil uses time.Now.
	Now func() time.Time
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" || deps.Config.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	if rl := rateLimit(deps); rl != nil {
		r.Use(rl)
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

// rateLimit returns nil when RATE_LIMIT_RPS is zero. Analyze requests get the
// configured rule; everything else gets ten times the headroom.
func rateLimit(deps RouterDeps) gin.HandlerFunc {
	rps, burst := deps.Config.RateLimitRPS, deps.Config.RateLimitBurst
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyze" {
				return rateGroupAnalyze
			}
			return rateGroupDefault
		},
		Limiter: middleware.NewRateLimiter(now),
		Rules: map[string]middleware.RateLimitRule{
			rateGroupAnalyze: {Rate: rps, Burst: burst},
			rateGroupDefault: {Rate: rps * 10, Burst: burst * 10},
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
