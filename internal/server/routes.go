package server

import (
	"github.com/opacedigital/ai-core/internal/server/middleware"
	v1 "github.com/opacedigital/ai-core/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	if s.config.Tracing.Enabled {
		s.router.Use(middleware.Tracing(s.config.Tracing.ServiceName))
	}
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler(s.service, s.version)
	s.router.GET("/health", healthHandler.Health)

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)

	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	api.Use(limiter.Middleware())
	api.Use(middleware.Identity())
	{
		chatHandler := v1.NewChatHandler(s.service, s.validator)
		api.POST("/chat", chatHandler.CreateCompletion)

		imageHandler := v1.NewImageHandler(s.service, s.validator)
		api.POST("/images", imageHandler.Generate)

		modelHandler := v1.NewModelHandler(s.service)
		api.GET("/providers", modelHandler.ListProviders)
		api.GET("/providers/:provider/models", modelHandler.ListModels)
		api.POST("/providers/:provider/validate", modelHandler.Validate)
		api.GET("/registry", modelHandler.Registry)
		api.GET("/registry/models/*id", modelHandler.GetModel)

		configHandler := v1.NewConfigHandler(s.config)
		api.GET("/config", configHandler.Get)

		if s.analytics != nil {
			analyticsHandler := v1.NewAnalyticsHandler(s.analytics)
			api.GET("/usage", analyticsHandler.GetUsage)
			api.GET("/usage/daily", analyticsHandler.GetDaily)
			api.GET("/usage/recent", analyticsHandler.GetRecent)
		}
	}
}
