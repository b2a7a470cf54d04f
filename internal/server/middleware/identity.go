package middleware

import (
	"github.com/gin-gonic/gin"
)

const useCaseKey = "use_case"

// Identity records the caller's use case from X-Use-Case, falling back to
// X-App-Name.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		useCase := c.GetHeader("X-Use-Case")
		if useCase == "" {
			useCase = c.GetHeader("X-App-Name")
		}
		if useCase != "" {
			c.Set(useCaseKey, useCase)
		}
		c.Next()
	}
}

// UseCase returns the value recorded by Identity.
func UseCase(c *gin.Context) string {
	return c.GetString(useCaseKey)
}
