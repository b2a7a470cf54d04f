package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opacedigital/ai-core/internal/gateway"
	"github.com/opacedigital/ai-core/pkg/api"
)

type ModelHandler struct {
	service gateway.Service
}

func NewModelHandler(service gateway.Service) *ModelHandler {
	return &ModelHandler{service: service}
}

// ListProviders reports every adapter and whether it has credentials.
//
// GET /v1/providers
func (h *ModelHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, api.List(h.service.Providers()))
}

// ListModels returns the provider's models, best first.
//
// GET /v1/providers/:provider/models
func (h *ModelHandler) ListModels(c *gin.Context) {
	models, err := h.service.AvailableModels(c.Request.Context(), c.Param("provider"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, api.List(models))
}

// Validate runs a connection test against the provider.
//
// POST /v1/providers/:provider/validate
func (h *ModelHandler) Validate(c *gin.Context) {
	v, err := h.service.ValidateAPIKey(c.Request.Context(), c.Param("provider"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Registry dumps the model catalog grouped by provider.
//
// GET /v1/registry
func (h *ModelHandler) Registry(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Registry().ExportProviderMetadata())
}

// GetModel returns one descriptor. Aliases and vendor prefixes resolve.
//
// GET /v1/registry/models/*id
func (h *ModelHandler) GetModel(c *gin.Context) {
	id := c.Param("id")
	if len(id) > 0 && id[0] == '/' {
		id = id[1:]
	}

	m, ok := h.service.Registry().ModelConfig(id)
	if !ok {
		_ = c.Error(api.NewError(http.StatusNotFound, "Model Not Found",
			"No model is registered under "+id,
			api.WithExtension("resolved", h.service.Registry().ResolveModelID(id)),
		))
		return
	}
	c.JSON(http.StatusOK, m)
}
