// File: internal/platform/middleware/identity.go
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderTokenType = "X-Token-Type"

	contextIdentityKey = "identity"
)

// Identity is the authenticated caller, resolved from the headers injected
// by the api-gateway after JWT validation.
type Identity struct {
	UserID int64
	Email  string
}

// RequireIdentity aborts with 401 when the gateway identity headers are
// missing or malformed.
func RequireIdentity(writer *response.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := parseIdentity(c)
		if !ok {
			writer.Error(c, http.StatusUnauthorized, "AUTH_IDENTITY_REQUIRED", "authenticated user required")
			c.Abort()
			return
		}
		c.Set(contextIdentityKey, ident)
		c.Next()
	}
}

// OptionalIdentity resolves the identity when present, leaving anonymous
// requests untouched.
func OptionalIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ident, ok := parseIdentity(c); ok {
			c.Set(contextIdentityKey, ident)
		}
		c.Next()
	}
}

// IdentityFrom returns the caller identity stored by RequireIdentity or
// OptionalIdentity.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextIdentityKey)
	if !ok {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}

func parseIdentity(c *gin.Context) (Identity, bool) {
	rawID := c.GetHeader(HeaderUserID)
	email := c.GetHeader(HeaderUserEmail)
	if rawID == "" || email == "" {
		return Identity{}, false
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, false
	}
	return Identity{UserID: userID, Email: email}, true
}
