// Package jwtmw issues and verifies session tokens and guards protected routes.
package jwtmw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextUserID is the gin context key holding the authenticated caller id.
const ContextUserID = "userID"

const bearerPrefix = "Bearer "

// ErrMissingToken is returned when the Authorization header carries no bearer token.
var ErrMissingToken = errors.New("missing bearer token")

// Verifier resolves a token to the user id it asserts.
type Verifier interface {
	Verify(token string) (string, error)
}

// Gate extracts and verifies the bearer token of an inbound request.
type Gate struct {
	verifier Verifier
}

// NewGate creates a Gate backed by verifier.
func NewGate(verifier Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authenticate resolves the Authorization header value to a caller id.
func (g *Gate) Authenticate(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMissingToken
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tokenStr == "" {
		return "", ErrMissingToken
	}
	return g.verifier.Verify(tokenStr)
}

// AuthRequired returns a Gin middleware that rejects requests without a valid token
// and stores the caller id under ContextUserID otherwise.
func AuthRequired(gate *Gate, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := gate.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.Warn("request rejected by auth gate",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthorizedMessage(err)})
			return
		}
		c.Set(ContextUserID, callerID)
		c.Next()
	}
}

// CallerID returns the caller id stored by AuthRequired.
func CallerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func unauthorizedMessage(err error) string {
	if errors.Is(err, ErrMissingToken) {
		return "No token, authorization denied"
	}
	return "Token is not valid"
}
