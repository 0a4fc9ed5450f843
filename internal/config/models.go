package config

import (
	"fmt"
	"time"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/ml"
	"github.com/mikey/contract-sentinel/internal/risk"
)

// LLMConfig represents the configuration for the narrative LLM provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region        string
	ModelID       string
	MaxTokens     int
	Temperature   float32
	TopP          float32
	MaxReportSize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey        string
	ModelName     string
	MaxTokens     int
	Temperature   float32
	TopP          float32
	MaxReportSize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey        string
	ModelName     string
	MaxTokens     int
	Temperature   float32
	TopP          float32
	MaxReportSize int
}

// CacheConfig represents the prediction cache configuration
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// SMTPConfig represents the SMTP relay used for alert digests
type SMTPConfig struct {
	Address       string
	Port          int
	Username      string
	Password      string
	From          string
	To            []string
	SubjectPrefix string
}

// NotifyConfig represents the notification configuration
type NotifyConfig struct {
	Type       string
	OnlyAlerts bool
	SMTP       SMTPConfig
}

// RunnerConfig represents the scheduled runner configuration
type RunnerConfig struct {
	Schedule   string
	Retrain    bool
	RunOnStart bool
}

// SourceConfig represents where record batches are read from
type SourceConfig struct {
	Path string
}

// GetEngine returns the engine configuration
func (c *Config) GetEngine() core.Config {
	cfg := core.DefaultConfig()
	cfg.MinTrainingRecords = c.GetInt("engine.min_training_records")
	cfg.ConfidenceThreshold = c.GetFloat64("engine.confidence_threshold")
	cfg.Risk = risk.Thresholds{
		Medium:   c.GetFloat64("engine.risk.medium"),
		High:     c.GetFloat64("engine.risk.high"),
		Critical: c.GetFloat64("engine.risk.critical"),
	}
	cfg.CVFolds = c.GetInt("engine.cv_folds")
	cfg.OverdueDays = c.GetInt("engine.overdue_days")
	cfg.EscalationDays = c.GetInt("engine.escalation_days")
	cfg.CriticalAgeDays = c.GetInt("engine.critical_age_days")
	cfg.CriticalRate = c.GetFloat64("engine.critical_rate")
	cfg.ClosedStatuses = c.GetStringSlice("engine.closed_statuses")

	seed := uint64(c.GetInt("model.seed"))
	cfg.Forest = ml.ForestConfig{
		Trees:               c.GetInt("model.forest.trees"),
		MaxDepth:            c.GetInt("model.forest.max_depth"),
		MinSamplesSplit:     c.GetInt("model.forest.min_samples_split"),
		MinSamplesLeaf:      c.GetInt("model.forest.min_samples_leaf"),
		BalancedClassWeight: c.GetBool("model.forest.balanced"),
		Seed:                seed,
	}
	cfg.Isolation = ml.IsolationConfig{
		Trees:         c.GetInt("model.isolation.trees"),
		SampleSize:    c.GetInt("model.isolation.sample_size"),
		Contamination: c.GetFloat64("model.isolation.contamination"),
		Seed:          seed,
	}
	return cfg
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:        c.GetString("bedrock.region"),
		ModelID:       c.GetString("bedrock.model_id"),
		MaxTokens:     c.GetInt("bedrock.max_tokens"),
		Temperature:   float32(c.GetFloat64("bedrock.temperature")),
		TopP:          float32(c.GetFloat64("bedrock.top_p")),
		MaxReportSize: c.GetInt("bedrock.max_report_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:        c.GetString("gemini.api_key"),
		ModelName:     c.GetString("gemini.model_name"),
		MaxTokens:     c.GetInt("gemini.max_tokens"),
		Temperature:   float32(c.GetFloat64("gemini.temperature")),
		TopP:          float32(c.GetFloat64("gemini.top_p")),
		MaxReportSize: c.GetInt("gemini.max_report_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:        c.GetString("openai.api_key"),
		ModelName:     c.GetString("openai.model_name"),
		MaxTokens:     c.GetInt("openai.max_tokens"),
		Temperature:   float32(c.GetFloat64("openai.temperature")),
		TopP:          float32(c.GetFloat64("openai.top_p")),
		MaxReportSize: c.GetInt("openai.max_report_size"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache ttl: %w", err)
	}
	cleanupFreq, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}, nil
}

// GetNotify returns the notification configuration
func (c *Config) GetNotify() NotifyConfig {
	return NotifyConfig{
		Type:       c.GetString("notify.type"),
		OnlyAlerts: c.GetBool("notify.only_alerts"),
		SMTP: SMTPConfig{
			Address:       c.GetString("notify.smtp.address"),
			Port:          c.GetInt("notify.smtp.port"),
			Username:      c.GetString("notify.smtp.username"),
			Password:      c.GetString("notify.smtp.password"),
			From:          c.GetString("notify.smtp.from"),
			To:            c.GetStringSlice("notify.smtp.to"),
			SubjectPrefix: c.GetString("notify.smtp.subject_prefix"),
		},
	}
}

// GetRunner returns the runner configuration
func (c *Config) GetRunner() RunnerConfig {
	return RunnerConfig{
		Schedule:   c.GetString("runner.schedule"),
		Retrain:    c.GetBool("runner.retrain"),
		RunOnStart: c.GetBool("runner.run_on_start"),
	}
}

// GetSource returns the record source configuration
func (c *Config) GetSource() SourceConfig {
	return SourceConfig{
		Path: c.GetString("source.path"),
	}
}
