// File: internal/gateway/filter.go

// Package gateway is the single public entry point. It terminates JWT
// auth, translates tokens into identity headers for the services behind it
// and reverse-proxies everything else untouched.
package gateway

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/auth/token"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/middleware"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

// publicRoute matches requests that pass without a token.
type publicRoute struct {
	method string // empty matches any method
	prefix string
}

// publicRoutes lists the unauthenticated surface. Catalog reads are open;
// everything else needs a valid access token.
var publicRoutes = []publicRoute{
	{method: http.MethodPost, prefix: "/api/auth/register"},
	{method: http.MethodPost, prefix: "/api/auth/login"},
	{method: http.MethodPost, prefix: "/api/auth/refresh"},
	{method: http.MethodGet, prefix: "/api/products"},
	{method: "", prefix: "/api/carts"},
}

// AuthFilter validates the bearer token and injects the identity headers.
// Inbound identity headers are always stripped first, so a client can never
// impersonate by setting them directly.
func AuthFilter(tokens *token.Manager, writer *response.Writer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Header.Del(middleware.HeaderUserID)
		c.Request.Header.Del(middleware.HeaderUserEmail)
		c.Request.Header.Del(middleware.HeaderTokenType)

		claims, err := bearerClaims(c, tokens)
		if err != nil {
			if isPublic(c.Request.Method, c.Request.URL.Path) {
				c.Next()
				return
			}
			logger.Debug("rejected unauthenticated request",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			writer.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_INVALID", "a valid access token is required")
			c.Abort()
			return
		}

		c.Request.Header.Set(middleware.HeaderUserID, strconv.FormatInt(claims.UserID, 10))
		c.Request.Header.Set(middleware.HeaderUserEmail, claims.Subject)
		c.Request.Header.Set(middleware.HeaderTokenType, claims.TokenType)
		c.Next()
	}
}

// bearerClaims extracts and validates the access token, if any.
func bearerClaims(c *gin.Context, tokens *token.Manager) (*token.Claims, error) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, errMissingToken
	}
	return tokens.ParseAccess(raw)
}

var errMissingToken = errors.New("missing bearer token")

func isPublic(method, path string) bool {
	for _, route := range publicRoutes {
		if route.method != "" && route.method != method {
			continue
		}
		if strings.HasPrefix(path, route.prefix) {
			return true
		}
	}
	return false
}
