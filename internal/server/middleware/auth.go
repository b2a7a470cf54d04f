package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opacedigital/ai-core/pkg/api"
)

// Auth accepts "Authorization: Bearer <key>" or "X-API-Key: <key>". With no
// keys configured every request passes.
func Auth(staticKeys []string) gin.HandlerFunc {
	keys := make([][]byte, 0, len(staticKeys))
	for _, k := range staticKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		token := c.GetHeader("X-API-Key")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				_ = c.Error(api.NewError(http.StatusUnauthorized, "Unauthorized", "Missing Authorization header"))
				c.Abort()
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				_ = c.Error(api.NewError(http.StatusUnauthorized, "Unauthorized", "Invalid Authorization header format"))
				c.Abort()
				return
			}
			token = parts[1]
		}

		for _, k := range keys {
			if subtle.ConstantTimeCompare(k, []byte(token)) == 1 {
				c.Next()
				return
			}
		}

		_ = c.Error(api.NewError(http.StatusUnauthorized, "Unauthorized", "Invalid API Key"))
		c.Abort()
	}
}
