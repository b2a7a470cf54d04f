package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opacedigital/ai-core/internal/gateway"
	"github.com/opacedigital/ai-core/internal/server/middleware"
	"github.com/opacedigital/ai-core/internal/server/validator"
	"github.com/opacedigital/ai-core/pkg/api"
)

type ChatHandler struct {
	service   gateway.Service
	validator *validator.Validator
}

func NewChatHandler(service gateway.Service, v *validator.Validator) *ChatHandler {
	return &ChatHandler{
		service:   service,
		validator: v,
	}
}

// CreateCompletion sends one non-streaming chat request and returns the
// normalized result.
//
// POST /v1/chat
func (h *ChatHandler) CreateCompletion(c *gin.Context) {
	var req api.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	useCase := req.UseCase
	if useCase == "" {
		useCase = middleware.UseCase(c)
	}

	res, err := h.service.Chat(c.Request.Context(), &gateway.ChatRequest{
		Provider: req.Provider,
		Messages: req.Messages,
		Options:  req.Options(),
		UseCase:  useCase,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}
