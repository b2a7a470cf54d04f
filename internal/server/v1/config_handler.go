package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opacedigital/ai-core/internal/config"
)

type ConfigHandler struct {
	config *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{config: cfg}
}

type providerView struct {
	Name         string        `json:"name"`
	Enabled      bool          `json:"enabled"`
	HasKey       bool          `json:"has_key"`
	BaseURL      string        `json:"base_url,omitempty"`
	Organization string        `json:"organization,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`
}

// Get returns the running configuration with secrets removed.
//
// GET /v1/config
func (h *ConfigHandler) Get(c *gin.Context) {
	providers := make([]providerView, 0, len(h.config.Providers))
	for _, p := range h.config.Providers {
		providers = append(providers, providerView{
			Name:         p.Name,
			Enabled:      p.Enabled,
			HasKey:       p.APIKey != "",
			BaseURL:      p.BaseURL,
			Organization: p.Organization,
			Timeout:      p.Timeout,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"env":        h.config.Server.Env,
		"rate_limit": gin.H{
			"requests_per_second": h.config.RateLimit.RequestsPerSecond,
			"burst":               h.config.RateLimit.Burst,
		},
		"cache":      gin.H{"models_ttl": h.config.Cache.ModelsTTL.String()},
		"database":   gin.H{"enabled": h.config.Database.Enabled},
		"redis":      gin.H{"enabled": h.config.Redis.Enabled},
		"tracing":    gin.H{"enabled": h.config.Tracing.Enabled, "service_name": h.config.Tracing.ServiceName},
		"providers":  providers,
		"aliases":    h.config.Aliases,
	})
}
