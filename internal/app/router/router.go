// Package router builds the gin engine and its route table.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authhandler "wth_backend/internal/feature/auth/transport/handler"
	"wth_backend/internal/platform/http/handler"
	jwtmw "wth_backend/internal/platform/jwt"
	"wth_backend/internal/platform/metrics"
	"wth_backend/internal/shared/ratelimiter"
)

// Deps are the components the route table is built from.
type Deps struct {
	Auth        *authhandler.AuthHandler
	Gate        *jwtmw.Gate
	Limiter     ratelimiter.Limiter
	Logger      *zap.Logger
	CORSEnabled bool

	// Store backs the /healthz check. Nil reports ok without a check.
	Store handler.Pinger

	// MaxUploadBytes bounds the multipart memory buffer.
	MaxUploadBytes int64
}

// NewRouter returns the configured engine.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	if d.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = d.MaxUploadBytes
	}
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metrics.Middleware())
	if d.CORSEnabled {
		r.Use(cors.Default())
	}

	// Unauthenticated platform endpoints
	r.GET("/", handler.Root)
	r.GET("/health", handler.Liveness)
	r.GET("/healthz", handler.Health(d.Store))
	r.HEAD("/healthz", handler.Health(d.Store))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	if d.Limiter != nil {
		api.Use(ratelimiter.Middleware(d.Limiter, logger))
	}

	auth := api.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Auth.Login)

	protected := auth.Group("/")
	protected.Use(jwtmw.AuthRequired(d.Gate, logger))
	{
		protected.GET("/user", d.Auth.GetProfile)
		protected.PUT("/update-profile", d.Auth.UpdateProfile)
		protected.PUT("/reset-password", d.Auth.ResetPassword)
		protected.POST("/upload-avatar", d.Auth.UploadAvatar)
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
