package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opacedigital/ai-core/internal/gateway"
	"github.com/opacedigital/ai-core/internal/server/middleware"
	"github.com/opacedigital/ai-core/internal/server/validator"
	"github.com/opacedigital/ai-core/pkg/api"
)

type ImageHandler struct {
	service   gateway.Service
	validator *validator.Validator
}

func NewImageHandler(service gateway.Service, v *validator.Validator) *ImageHandler {
	return &ImageHandler{service: service, validator: v}
}

// Generate creates images from a prompt.
//
// POST /v1/images
func (h *ImageHandler) Generate(c *gin.Context) {
	var req api.ImageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	useCase := req.UseCase
	if useCase == "" {
		useCase = middleware.UseCase(c)
	}

	res, err := h.service.GenerateImage(c.Request.Context(), &gateway.ImageRequest{
		Provider: req.Provider,
		Prompt:   req.Prompt,
		Options:  req.Options(),
		UseCase:  useCase,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}
