package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opacedigital/ai-core/internal/gateway"
)

type HealthHandler struct {
	service gateway.Service
	version string
}

func NewHealthHandler(service gateway.Service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version}
}

// Health reports liveness and provider configuration.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"models":    h.service.Registry().Len(),
		"providers": h.service.Providers(),
	})
}
