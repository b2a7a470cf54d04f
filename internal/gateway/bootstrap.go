package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/cli"
	"github.com/opacedigital/ai-core/internal/config"
	"github.com/opacedigital/ai-core/internal/httpclient"
	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/normalize"
	"github.com/opacedigital/ai-core/internal/registry"
	"github.com/opacedigital/ai-core/pkg/api"
)

const (
	defaultTimeout  = 120 * time.Second
	validateTimeout = 15 * time.Second
)

// BootstrapProviders builds one adapter per supported provider. Enabled and
// valid configuration entries supply credentials; every other provider gets an
// unconfigured adapter so callers receive ConfigurationError instead of a
// missing provider.
func BootstrapProviders(ctx context.Context, providers []config.ProviderConfig, reg *registry.Registry, log *zap.Logger) map[api.ProviderName]llm.Provider {
	validate := validator.New()
	entries := make(map[api.ProviderName]config.ProviderConfig)

	for _, pCfg := range providers {
		if !pCfg.Enabled {
			continue
		}

		if err := validate.Struct(&pCfg); err != nil {
			log.Warn(fmt.Sprintf("%s %s", cli.WarningSign(),
				cli.Style(fmt.Sprintf("Skipping provider %q: invalid configuration", pCfg.Name), cli.Yellow)),
				zap.Error(err),
			)
			continue
		}

		name, err := api.ParseProvider(pCfg.Name)
		if err != nil {
			log.Error("Unknown provider type", zap.String("name", pCfg.Name))
			continue
		}
		entries[name] = pCfg
	}

	norm := normalize.New()
	built := make(map[api.ProviderName]llm.Provider, len(api.Providers()))
	configured := 0

	for _, name := range api.Providers() {
		cfg := llm.Config{
			Registry:   reg,
			Normalizer: norm,
			Logger:     log.Named(string(name)),
		}

		timeout := defaultTimeout
		if entry, ok := entries[name]; ok {
			cfg.APIKey = entry.APIKey
			cfg.BaseURL = entry.BaseURL
			cfg.Organization = entry.Organization
			cfg.Version = entry.Version
			if entry.Timeout > 0 {
				timeout = entry.Timeout
			}
		}
		cfg.HTTP = httpclient.New(&http.Client{Timeout: timeout})

		p, err := NewProvider(name, cfg)
		if err != nil {
			log.Error("Failed to initialize provider", zap.String("name", string(name)), zap.Error(err))
			continue
		}
		built[name] = p

		if !p.IsConfigured() {
			continue
		}
		configured++

		if entries[name].ValidateOnStart {
			checkProvider(ctx, p, log)
			continue
		}
		log.Info(fmt.Sprintf("%s Provider %s ready", cli.CheckMark(), cli.Style(string(name), cli.Cyan)))
	}

	if configured == 0 {
		log.Warn("No providers are configured. Chat and image requests will fail.")
	}

	return built
}

func checkProvider(ctx context.Context, p llm.Provider, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	v := p.ValidateAPIKey(ctx)
	if !v.Valid {
		log.Warn(fmt.Sprintf("%s Provider %s failed validation", cli.CrossMark(), cli.Style(string(p.Name()), cli.Red)),
			zap.String("model", v.Model),
			zap.String("error", v.Error),
		)
		return
	}
	log.Info(fmt.Sprintf("%s Provider %s validated", cli.CheckMark(), cli.Style(string(p.Name()), cli.Cyan)),
		zap.String("model", v.Model))
}

// ApplyAliases registers configured model aliases.
func ApplyAliases(reg *registry.Registry, aliases map[string]string, log *zap.Logger) {
	for alias, target := range aliases {
		if !reg.AddAlias(alias, target) {
			log.Warn("Ignoring model alias", zap.String("alias", alias), zap.String("target", target))
		}
	}
}
