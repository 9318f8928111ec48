// File: internal/gateway/filter_test.go
package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/auth/token"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/middleware"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

func newFilterRouter(t *testing.T) (*gin.Engine, *token.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewManager(config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "auth-service-test",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
	writer := response.NewWriter("api-gateway", "test", zap.NewNop())

	router := gin.New()
	router.Use(AuthFilter(tokens, writer, zap.NewNop()))
	echo := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":    c.Request.Header.Get(middleware.HeaderUserID),
			"userEmail": c.Request.Header.Get(middleware.HeaderUserEmail),
			"tokenType": c.Request.Header.Get(middleware.HeaderTokenType),
		})
	}
	router.Any("/api/orders", echo)
	router.Any("/api/products", echo)
	router.POST("/api/auth/login", echo)
	return router, tokens
}

func TestAuthFilterRejectsMissingToken(t *testing.T) {
	router, _ := newFilterRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_TOKEN_INVALID")
}

func TestAuthFilterRejectsGarbageToken(t *testing.T) {
	router, _ := newFilterRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthFilterRejectsRefreshToken(t *testing.T) {
	router, tokens := newFilterRouter(t)

	refresh, _, err := tokens.IssueRefreshToken(42, "ana@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthFilterInjectsIdentityHeaders(t *testing.T) {
	router, tokens := newFilterRouter(t)

	access, err := tokens.IssueAccessToken(42, "ana@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"42"`)
	assert.Contains(t, rec.Body.String(), `"userEmail":"ana@example.com"`)
	assert.Contains(t, rec.Body.String(), `"tokenType":"access"`)
}

func TestAuthFilterStripsSpoofedHeaders(t *testing.T) {
	router, _ := newFilterRouter(t)

	// Public route, no token, forged identity headers: they must not survive.
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(middleware.HeaderUserID, "999")
	req.Header.Set(middleware.HeaderUserEmail, "attacker@example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":""`)
	assert.Contains(t, rec.Body.String(), `"userEmail":""`)
}

func TestAuthFilterPublicRoutes(t *testing.T) {
	router, _ := newFilterRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Catalog writes are not public.
	req = httptest.NewRequest(http.MethodPost, "/api/products", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
