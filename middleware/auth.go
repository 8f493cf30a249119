package middleware

import (
	"net/http"
	"strings"

	"hotelops/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const PrincipalKey = "principalID"

// Authenticator resolves a bearer token to a principal id.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// JWTAuthMiddleware accepts "Authorization: Bearer <jwt>" or the legacy
// "token" header and stores the principal under PrincipalKey.
func JWTAuthMiddleware(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "missing authorization token")
			return
		}

		principal, err := auth.Authenticate(token)
		if err != nil {
			logger.Debug("Token rejected", zap.String("ip", getClientIP(c)), zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader("token"))
}

// Principal returns the authenticated principal, if any.
func Principal(c *gin.Context) string {
	return c.GetString(PrincipalKey)
}
