package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

// RetryConfig bounds the attempts made for a single categorization.
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	MinWait  time.Duration `mapstructure:"min_wait"`
	MaxWait  time.Duration `mapstructure:"max_wait"`
}

type Config struct {
	Categorization struct {
		// Enabled is parsed by hand: only a case-insensitive "true" turns it on.
		Enabled        bool        `mapstructure:"-"`
		Provider       string      `mapstructure:"provider"`        // "openai", "zai", "ollama" or "gemini"
		Model          string      `mapstructure:"model"`           // Overrides the zai/ollama model when set
		PromptTemplate string      `mapstructure:"prompt_template"` // Path to a prompt file; empty uses the built-in prompt
		Retry          RetryConfig `mapstructure:"retry"`
	} `mapstructure:"categorization"`

	OpenAI struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"openai"`

	ZAI struct {
		APIKey  string `mapstructure:"api_key"`
		BaseURL string `mapstructure:"base_url"`
		Model   string `mapstructure:"model"`
	} `mapstructure:"zai"`

	Ollama struct {
		Host  string `mapstructure:"host"`
		Model string `mapstructure:"model"`
	} `mapstructure:"ollama"`

	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"categorization.enabled":         "ENABLE_CATEGORIZATION",
	"categorization.provider":        "CATEGORIZATION_PROVIDER",
	"categorization.model":           "CATEGORIZATION_MODEL",
	"categorization.prompt_template": "CATEGORIZATION_PROMPT",
	"openai.api_key":                 "OPENAI_API_KEY",
	"openai.model":                   "OPENAI_MODEL",
	"zai.api_key":                    "ZAI_API_KEY",
	"zai.base_url":                   "ZAI_BASE_URL",
	"ollama.host":                    "OLLAMA_HOST",
	"gemini.api_key":                 "GEMINI_API_KEY",
	"log.level":                      "LOG_LEVEL",
	"log.format":                     "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("categorization.enabled", "false")
	v.SetDefault("categorization.provider", "openai")
	v.SetDefault("categorization.model", "")
	v.SetDefault("categorization.prompt_template", "")
	v.SetDefault("categorization.retry.attempts", 3)
	v.SetDefault("categorization.retry.min_wait", 4*time.Second)
	v.SetDefault("categorization.retry.max_wait", 15*time.Second)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("zai.api_key", "")
	v.SetDefault("zai.base_url", "https://api.z.ai/api/coding/paas/v4")
	v.SetDefault("zai.model", "glm-4.7")
	v.SetDefault("ollama.host", "http://localhost:11434")
	v.SetDefault("ollama.model", "phi3:mini")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads configuration from configFile (or config.yaml in the current
// directory and ~/.config/memcat when empty), a .env file, and the environment.
// Environment variables win over file values.
func LoadConfig(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "memcat"))
		}
	}

	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the default config file doesn't exist; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config file found, using defaults and environment")
	} else {
		log.Debugf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Categorization.Enabled = parseFlag(v.GetString("categorization.enabled"))

	return &cfg, nil
}

func parseFlag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// ModelFor returns the model name used for the given provider selector.
// The shared categorization.model override applies to the zai and ollama backends only.
func (c *Config) ModelFor(provider string) string {
	switch provider {
	case "zai":
		if c.Categorization.Model != "" {
			return c.Categorization.Model
		}
		return c.ZAI.Model
	case "ollama":
		if c.Categorization.Model != "" {
			return c.Categorization.Model
		}
		return c.Ollama.Model
	case "gemini":
		return c.Gemini.Model
	default:
		return c.OpenAI.Model
	}
}
