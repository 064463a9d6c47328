// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Banner is the plain-text body served at /.
const Banner = "Authentication Backend is running..."

const pingTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Root serves the liveness banner at /.
func Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

// Liveness serves a plain "OK" at /health. It never touches the store.
func Liveness(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.String(http.StatusOK, "OK")
}

// Health serves /healthz. With a store it answers 503 when the store cannot be pinged.
func Health(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		status, body := http.StatusOK, gin.H{"status": "ok"}
		if store != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := store.PingContext(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, gin.H{"status": "unavailable", "db": "down"}
			} else {
				body["db"] = "up"
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	}
}
