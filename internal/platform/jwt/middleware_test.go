package jwtmw

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubVerifier struct {
	userID string
	err    error
	calls  int
}

func (s *stubVerifier) Verify(token string) (string, error) {
	s.calls++
	return s.userID, s.err
}

func TestGate_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantID     string
		wantErr    error
		wantCalled bool
	}{
		{"no header", "", &stubVerifier{userID: "u1"}, "", ErrMissingToken, false},
		{"basic auth", "Basic dXNlcjpwYXNz", &stubVerifier{userID: "u1"}, "", ErrMissingToken, false},
		{"bearer lowercase", "bearer token123", &stubVerifier{userID: "u1"}, "", ErrMissingToken, false},
		{"no space after Bearer", "Bearertoken123", &stubVerifier{userID: "u1"}, "", ErrMissingToken, false},
		{"empty token", "Bearer   ", &stubVerifier{userID: "u1"}, "", ErrMissingToken, false},
		{"verifier rejects", "Bearer abc", &stubVerifier{err: ErrInvalidToken}, "", ErrInvalidToken, true},
		{"expired", "Bearer abc", &stubVerifier{err: ErrExpiredToken}, "", ErrExpiredToken, true},
		{"valid", "Bearer abc", &stubVerifier{userID: "u1"}, "u1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(tt.verifier)

			id, err := gate.Authenticate(tt.header)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantCalled, tt.verifier.calls > 0)
		})
	}
}

func newGateForTest(t *testing.T) (*Gate, *TokenService) {
	t.Helper()
	svc, err := NewTokenService("test-secret-key", time.Hour)
	require.NoError(t, err)
	return NewGate(svc), svc
}

func TestAuthRequired_Rejects(t *testing.T) {
	gate, _ := newGateForTest(t)
	expiredSvc, err := NewTokenService("test-secret-key", time.Hour, WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}))
	require.NoError(t, err)
	expired, err := expiredSvc.Issue("u1")
	require.NoError(t, err)

	tests := []struct {
		name        string
		authHeader  string
		wantMessage string
	}{
		{"no header", "", "No token, authorization denied"},
		{"basic auth", "Basic dXNlcjpwYXNz", "No token, authorization denied"},
		{"malformed token", "Bearer not.a.valid.token", "Token is not valid"},
		{"expired token", "Bearer " + expired, "Token is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			AuthRequired(gate, zap.NewNop())(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted(), "expected request to be aborted")
			assert.Contains(t, w.Body.String(), tt.wantMessage)
			_, ok := CallerID(c)
			assert.False(t, ok)
		})
	}
}

func TestAuthRequired_ValidToken(t *testing.T) {
	gate, svc := newGateForTest(t)
	token, err := svc.Issue("user-42")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	AuthRequired(gate, zap.NewNop())(c)

	require.False(t, c.IsAborted(), "response: %s", w.Body.String())
	id, ok := CallerID(c)
	assert.True(t, ok)
	assert.Equal(t, "user-42", id)
}

func TestAuthRequired_HandlerNotReachedOnFailure(t *testing.T) {
	gate := NewGate(&stubVerifier{err: errors.New("boom")})

	reached := false
	r := gin.New()
	r.GET("/p", AuthRequired(gate, zap.NewNop()), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer x")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestCallerID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CallerID(c)
	assert.False(t, ok, "unset key")

	c.Set(ContextUserID, 42)
	_, ok = CallerID(c)
	assert.False(t, ok, "wrong type")

	c.Set(ContextUserID, "u1")
	id, ok := CallerID(c)
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}
