package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears every bound variable.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.False(t, cfg.Categorization.Enabled)
	assert.Equal(t, "openai", cfg.Categorization.Provider)
	assert.Equal(t, 3, cfg.Categorization.Retry.Attempts)
	assert.Equal(t, 4*time.Second, cfg.Categorization.Retry.MinWait)
	assert.Equal(t, 15*time.Second, cfg.Categorization.Retry.MaxWait)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "https://api.z.ai/api/coding/paas/v4", cfg.ZAI.BaseURL)
	assert.Equal(t, "glm-4.7", cfg.ZAI.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.Host)
	assert.Equal(t, "phi3:mini", cfg.Ollama.Model)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("ENABLE_CATEGORIZATION", "TRUE")
	t.Setenv("CATEGORIZATION_PROVIDER", "ollama")
	t.Setenv("CATEGORIZATION_MODEL", "llama3.2")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.Categorization.Enabled)
	assert.Equal(t, "ollama", cfg.Categorization.Provider)
	assert.Equal(t, "llama3.2", cfg.Categorization.Model)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.Host)
}

func TestLoadConfig_EnabledFlag(t *testing.T) {
	testCases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"True", true},
		{" true ", true},
		{"false", false},
		{"1", false},
		{"yes", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			isolate(t)
			t.Setenv("ENABLE_CATEGORIZATION", tc.value)

			cfg, err := LoadConfig("")
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.Categorization.Enabled)
		})
	}
}

func TestLoadConfig_File(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")
	path := writeConfig(t, `
categorization:
  enabled: "true"
  provider: zai
  retry:
    attempts: 5
    min_wait: 1s
    max_wait: 2s
openai:
  model: gpt-4o
pricing:
  openai:
    gpt-4o-mini:
      input_per_token: 0.00000015
      output_per_token: 0.0000006
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Categorization.Enabled)
	assert.Equal(t, "zai", cfg.Categorization.Provider)
	assert.Equal(t, RetryConfig{Attempts: 5, MinWait: time.Second, MaxWait: 2 * time.Second}, cfg.Categorization.Retry)
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAI.Model, "environment wins over the file")
	assert.InDelta(t, 0.0000006, cfg.Pricing["openai"]["gpt-4o-mini"].OutputPerToken, 1e-12)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestModelFor(t *testing.T) {
	cfg := &Config{}
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.ZAI.Model = "glm-4.7"
	cfg.Ollama.Model = "phi3:mini"
	cfg.Gemini.Model = "gemini-1.5-flash"

	assert.Equal(t, "gpt-4o-mini", cfg.ModelFor("openai"))
	assert.Equal(t, "glm-4.7", cfg.ModelFor("zai"))
	assert.Equal(t, "phi3:mini", cfg.ModelFor("ollama"))
	assert.Equal(t, "gpt-4o-mini", cfg.ModelFor("unknown"))

	cfg.Categorization.Model = "llama3.2"
	assert.Equal(t, "llama3.2", cfg.ModelFor("zai"))
	assert.Equal(t, "llama3.2", cfg.ModelFor("ollama"))
	assert.Equal(t, "gpt-4o-mini", cfg.ModelFor("openai"), "openai ignores the shared override")
	assert.Equal(t, "gemini-1.5-flash", cfg.ModelFor("gemini"))
}

func validConfig() *Config {
	cfg := &Config{}
	cfg.Categorization.Retry = RetryConfig{Attempts: 3, MinWait: 4 * time.Second, MaxWait: 15 * time.Second}
	cfg.ZAI.BaseURL = "https://api.z.ai/api/coding/paas/v4"
	cfg.Ollama.Host = "http://localhost:11434"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero attempts", func(c *Config) { c.Categorization.Retry.Attempts = 0 }},
		{"zero min wait", func(c *Config) { c.Categorization.Retry.MinWait = 0 }},
		{"max below min", func(c *Config) { c.Categorization.Retry.MaxWait = time.Second }},
		{"bad zai url", func(c *Config) { c.ZAI.BaseURL = "ftp://example.com" }},
		{"empty ollama host", func(c *Config) { c.Ollama.Host = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative price", func(c *Config) {
			c.Pricing = map[string]map[string]PricingInfo{"openai": {"gpt-4o-mini": {InputPerToken: -1}}}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadPromptContent(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := LoadPromptContent("")
	require.NoError(t, err)
	assert.Empty(t, got)

	promptDir := filepath.Join(home, defaultPromptDir)
	require.NoError(t, os.MkdirAll(promptDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(promptDir, "short.txt"), []byte("Use one word."), 0o644))

	got, err = LoadPromptContent("short.txt")
	require.NoError(t, err)
	assert.Equal(t, "Use one word.", got)

	abs := filepath.Join(t.TempDir(), "abs.txt")
	require.NoError(t, os.WriteFile(abs, []byte("Absolute prompt"), 0o644))
	got, err = LoadPromptContent(abs)
	require.NoError(t, err)
	assert.Equal(t, "Absolute prompt", got)

	_, err = LoadPromptContent("missing.txt")
	assert.Error(t, err)
}
