package middleware

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinegate/pinegate/internal/infrastructure/auth"
	"github.com/pinegate/pinegate/internal/shared/constants"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"actor": c.GetString(constants.ContextKeyActor),
			"role":  c.GetString(constants.ContextKeyRole),
		})
	})
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireServiceToken(t *testing.T) {
	tokens := auth.NewServiceTokenService("secret", "pinegate")
	mw := NewAuthMiddleware(tokens, logger.NewNop())
	r := newEngine(mw.RequireServiceToken())

	token, err := tokens.Generate("billing", constants.RoleService, time.Hour)
	require.NoError(t, err)

	w := do(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"actor":"billing","role":"service"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer not-a-jwt").Code)
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewServiceTokenService("secret", "pinegate")
	mw := NewAuthMiddleware(tokens, logger.NewNop())
	r := newEngine(mw.RequireServiceToken(), RequireRole(constants.RoleService, constants.RoleAdmin))

	admin, err := tokens.Generate("ops", constants.RoleAdmin, time.Hour)
	require.NoError(t, err)
	seller, err := tokens.Generate("seller-7", constants.RoleSeller, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+admin).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+seller).Code)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	setActor := func(actor string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(constants.ContextKeyActor, actor)
			c.Next()
		}
	}
	limiter := NewRateLimiter(client, 2, time.Minute, logger.NewNop())

	billing := newEngine(setActor("billing"), limiter.Limit())
	assert.Equal(t, http.StatusOK, do(billing, "").Code)
	assert.Equal(t, http.StatusOK, do(billing, "").Code)
	w := do(billing, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	other := newEngine(setActor("ops"), limiter.Limit())
	assert.Equal(t, http.StatusOK, do(other, "").Code, "counters are per actor")
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	r := newEngine(NewRateLimiter(client, 1, time.Minute, logger.NewNop()).Limit())
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := do(r, "")
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(constants.HeaderXRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestSecurityHeaders(t *testing.T) {
	w := do(newEngine(SecurityHeaders()), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestClientGone(t *testing.T) {
	pipe := &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}
	assert.True(t, clientGone(pipe))
	assert.False(t, clientGone(errors.New("nil map write")))
	assert.False(t, clientGone("boom"))
}
