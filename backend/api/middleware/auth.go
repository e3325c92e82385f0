package middleware

import (
	"net/http"
	"strings"

	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"
	"github.com/v-wei40680/mcp-linker/backend/service"

	"github.com/gin-gonic/gin"
)

// The current viewer is stored in the gin context under these keys.
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// JWTAuth requires a valid identity-provider bearer token. Verification also
// upserts the viewer record from the token claims. Every failure mode gets
// the same 401 message.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			common.RespErrorStr(c, http.StatusUnauthorized, "Invalid authentication token")
			c.Abort()
			return
		}

		user, err := service.AuthenticateUser(token)
		if err != nil {
			common.RespErrorStr(c, http.StatusUnauthorized, "Invalid authentication token")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// OptionalJWTAuth authenticates when a valid bearer token is present and
// continues anonymously otherwise. Never aborts.
func OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if user, err := service.AuthenticateUser(token); err == nil {
				c.Set(ContextUserKey, user)
				c.Set(ContextUserIDKey, user.ID)
			}
		}
		c.Next()
	}
}

// AdminAuth assumes JWTAuth already ran and requires the admin role.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != model.RoleAdmin {
			common.RespErrorStr(c, http.StatusForbidden, "Admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated viewer, or nil.
func CurrentUser(c *gin.Context) *model.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID returns the authenticated viewer's id, or "".
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
