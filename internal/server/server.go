package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/analytics"
	"github.com/opacedigital/ai-core/internal/config"
	"github.com/opacedigital/ai-core/internal/gateway"
	"github.com/opacedigital/ai-core/internal/server/validator"
)

type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    *zap.Logger
	service   gateway.Service
	analytics analytics.Service
	validator *validator.Validator
	version   string
}

type Option func(*Server)

// WithAnalytics exposes the usage endpoints.
func WithAnalytics(a analytics.Service) Option {
	return func(s *Server) { s.analytics = a }
}

func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

func New(cfg *config.Config, logger *zap.Logger, service gateway.Service, opts ...Option) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health"},
	}))
	engine.Use(ginzap.RecoveryWithZap(logger, true))

	s := &Server{
		router:    engine,
		service:   service,
		logger:    logger,
		config:    cfg,
		validator: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
