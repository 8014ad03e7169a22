package config

import (
	"time"

	"github.com/pricerhq/takeoff/internal/pipeline/detect"
	"github.com/pricerhq/takeoff/internal/providers"
)

// Config holds takeoff configuration.
// Stored at: ./config.yaml or ~/.takeoff/config.yaml
type Config struct {
	Extraction ExtractionCfg `mapstructure:"extraction" yaml:"extraction"`
	LLM        LLMCfg        `mapstructure:"llm" yaml:"llm"`
	Batch      BatchCfg      `mapstructure:"batch" yaml:"batch"`
}

// ExtractionCfg tunes the deterministic table pipeline.
type ExtractionCfg struct {
	// MinScoreThreshold is the candidate eligibility cutoff.
	MinScoreThreshold float64 `mapstructure:"min_score_threshold" yaml:"min_score_threshold"`
	// KeywordsFile optionally overrides the embedded keyword groups.
	KeywordsFile string `mapstructure:"keywords_file" yaml:"keywords_file"`
}

// LLMCfg configures the hybrid extraction pass.
type LLMCfg struct {
	Provider          string `mapstructure:"provider" yaml:"provider"` // "openrouter", "openai", "mock"
	Model             string `mapstructure:"model" yaml:"model"`
	APIKey            string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries        int    `mapstructure:"max_retries" yaml:"max_retries"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
}

// BatchCfg configures concurrent batch processing.
type BatchCfg struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionCfg{
			MinScoreThreshold: detect.MinScoreThreshold,
		},
		LLM: LLMCfg{
			Provider:          "openrouter",
			Model:             "anthropic/claude-3.5-sonnet",
			APIKey:            "${OPENROUTER_API_KEY}",
			TimeoutSeconds:    120,
			MaxRetries:        3,
			RequestsPerMinute: 60,
			Enabled:           true,
		},
		Batch: BatchCfg{
			Workers: 4,
		},
	}
}

// ClientConfig converts the LLM section to a provider client config,
// resolving ${ENV_VAR} references in the API key.
func (c *Config) ClientConfig() providers.ClientConfig {
	return providers.ClientConfig{
		Type:       c.LLM.Provider,
		APIKey:     ResolveEnvVars(c.LLM.APIKey),
		Model:      c.LLM.Model,
		BaseURL:    c.LLM.BaseURL,
		Timeout:    time.Duration(c.LLM.TimeoutSeconds) * time.Second,
		MaxRetries: c.LLM.MaxRetries,
	}
}
