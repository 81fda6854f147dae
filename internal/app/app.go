package app

import (
	"context"
	"fmt"
	"os"

	"memcat/internal/config"
	"memcat/internal/costtracker"
	"memcat/internal/metrics"
	"memcat/pkg/categorizer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

type App struct {
	Config      *config.Config
	Registry    *prometheus.Registry
	CostTracker costtracker.CostTracker
	Metrics     *metrics.Categorization

	CategorizationService *categorizer.Service

	prompt string
}

// NewApp wires the categorization service from cfg. providerOverride, when not
// empty, replaces the configured provider selector.
func NewApp(cfg *config.Config, providerOverride string) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if providerOverride != "" {
		cfg.Categorization.Provider = providerOverride
	}

	app := &App{Config: cfg}
	app.initMetrics()
	if err := app.initCategorizationService(); err != nil {
		return nil, err
	}

	log.Debug("Application initialization complete.")
	return app, nil
}

// ConfigureLogging applies the configured level and format to the standard logger.
func ConfigureLogging(cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if cfg.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// --- Private Helper Methods ---

func (a *App) initMetrics() {
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.CostTracker = costtracker.NewPrometheusTracker(a.Registry, a.Config.Pricing)
	a.Metrics = metrics.NewCategorization(a.Registry)
}

func (a *App) initCategorizationService() error {
	cfg := a.Config

	promptContent, err := config.LoadPromptContent(cfg.Categorization.PromptTemplate)
	if err != nil {
		return fmt.Errorf("load categorization prompt: %w", err)
	}
	a.prompt = promptContent

	r := cfg.Categorization.Retry
	a.CategorizationService = categorizer.NewService(
		categorizer.ServiceConfig{
			Enabled:  cfg.Categorization.Enabled,
			Provider: cfg.Categorization.Provider,
			Retry:    categorizer.RetryPolicy{Attempts: r.Attempts, MinWait: r.MinWait, MaxWait: r.MaxWait},
		},
		a.Factories(),
		categorizer.WithRecorder(a.Metrics),
	)

	if cfg.Categorization.Enabled {
		provider := a.CategorizationService.Provider()
		log.Infof("Categorization enabled using %s (model %s)", provider, cfg.ModelFor(string(provider)))
	} else {
		log.Debug("Categorization is disabled; memories will not be categorized.")
	}
	return nil
}

// Factories returns a constructor per provider. Each call builds a fresh client.
func (a *App) Factories() map[categorizer.Provider]categorizer.Factory {
	cfg := a.Config
	opts := []categorizer.Option{categorizer.WithCostTracker(a.CostTracker)}

	return map[categorizer.Provider]categorizer.Factory{
		categorizer.ProviderOpenAI: func() (categorizer.Categorizer, error) {
			if cfg.OpenAI.APIKey == "" {
				return nil, fmt.Errorf("openai: %w", categorizer.ErrMissingAPIKey)
			}
			client := openai.NewClient(cfg.OpenAI.APIKey)
			return categorizer.NewOpenAICategorizer(client, cfg.ModelFor("openai"), a.prompt, opts...), nil
		},
		categorizer.ProviderZAI: func() (categorizer.Categorizer, error) {
			if cfg.ZAI.APIKey == "" {
				return nil, fmt.Errorf("zai: %w", categorizer.ErrMissingAPIKey)
			}
			client := categorizer.NewCompatibleClient(cfg.ZAI.APIKey, cfg.ZAI.BaseURL)
			return categorizer.NewCompatibleCategorizer(client, cfg.ModelFor("zai"), a.prompt, opts...), nil
		},
		categorizer.ProviderOllama: func() (categorizer.Categorizer, error) {
			return categorizer.NewOllamaCategorizer(cfg.Ollama.Host, cfg.ModelFor("ollama"), a.prompt, opts...), nil
		},
		categorizer.ProviderGemini: func() (categorizer.Categorizer, error) {
			return categorizer.DialGeminiCategorizer(context.Background(), cfg.Gemini.APIKey, cfg.ModelFor("gemini"), a.prompt, opts...)
		},
	}
}

// ProviderInfo describes a backend for display.
type ProviderInfo struct {
	Provider      categorizer.Provider
	Model         string
	Endpoint      string
	HasCredential bool
	Selected      bool
}

// ProviderInfos lists every backend with its effective settings.
func (a *App) ProviderInfos() []ProviderInfo {
	cfg := a.Config
	selected := a.CategorizationService.Provider()
	infos := make([]ProviderInfo, 0, len(categorizer.Providers()))
	for _, p := range categorizer.Providers() {
		info := ProviderInfo{Provider: p, Model: cfg.ModelFor(string(p)), Selected: p == selected}
		switch p {
		case categorizer.ProviderOpenAI:
			info.Endpoint = "https://api.openai.com/v1"
			info.HasCredential = cfg.OpenAI.APIKey != ""
		case categorizer.ProviderZAI:
			info.Endpoint = cfg.ZAI.BaseURL
			info.HasCredential = cfg.ZAI.APIKey != ""
		case categorizer.ProviderOllama:
			info.Endpoint = cfg.Ollama.Host
			info.HasCredential = true
		case categorizer.ProviderGemini:
			info.Endpoint = "https://generativelanguage.googleapis.com"
			info.HasCredential = cfg.Gemini.APIKey != ""
		}
		infos = append(infos, info)
	}
	return infos
}
