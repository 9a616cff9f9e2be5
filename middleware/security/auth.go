package security

import (
	"net/http"
	"strings"

	"CProject/tools/errs"
	sec "CProject/tools/security"

	"github.com/gin-gonic/gin"
)

// Context keys set for downstream handlers.
const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
)

// Auth verifies a Bearer JWT and puts the identity into the gin
// context. The REST surface trusts the same claims the websocket auth
// frame does.
func Auth(opts sec.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized)
			return
		}
		id, err := sec.Verify(opts, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized.WithDetail(err.Error()))
			return
		}
		c.Set(CtxUserIDKey, id.UserID)
		c.Set(CtxUsernameKey, id.Username)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authz := strings.TrimSpace(c.GetHeader("Authorization"))
	if authz == "" {
		return strings.TrimSpace(c.GetHeader("authorization"))
	}
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return authz
}

// UserID reads the verified user id out of the gin context.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
