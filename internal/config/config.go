package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/contract-sentinel/internal/statusset"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/contract-sentinel/")
	v.AddConfigPath("$HOME/.contract-sentinel")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("CONTRACT_SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit config file
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("CONTRACT_SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Engine defaults
	v.SetDefault("engine.min_training_records", 20)
	v.SetDefault("engine.confidence_threshold", 0.30)
	v.SetDefault("engine.risk.medium", 15.0)
	v.SetDefault("engine.risk.high", 30.0)
	v.SetDefault("engine.risk.critical", 50.0)
	v.SetDefault("engine.cv_folds", 5)
	v.SetDefault("engine.overdue_days", 30)
	v.SetDefault("engine.escalation_days", 60)
	v.SetDefault("engine.critical_age_days", 90)
	v.SetDefault("engine.critical_rate", 0.20)
	v.SetDefault("engine.closed_statuses", statusset.DefaultClosed)

	// Model defaults
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.forest.trees", 300)
	v.SetDefault("model.forest.max_depth", 15)
	v.SetDefault("model.forest.min_samples_split", 3)
	v.SetDefault("model.forest.min_samples_leaf", 1)
	v.SetDefault("model.forest.balanced", true)
	v.SetDefault("model.isolation.trees", 100)
	v.SetDefault("model.isolation.sample_size", 256)
	v.SetDefault("model.isolation.contamination", 0.1)

	// LLM provider defaults
	v.SetDefault("llm.provider", "none")

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.2)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_report_size", 8192)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.2)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_report_size", 8192)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.2)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_report_size", 8192)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/prediction_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/contract_sentinel")

	// Notification defaults
	v.SetDefault("notify.type", "log")
	v.SetDefault("notify.only_alerts", true)
	v.SetDefault("notify.smtp.address", "localhost")
	v.SetDefault("notify.smtp.port", 25)
	v.SetDefault("notify.smtp.username", "")
	v.SetDefault("notify.smtp.password", "")
	v.SetDefault("notify.smtp.from", "contract-sentinel@localhost")
	v.SetDefault("notify.smtp.to", []string{})
	v.SetDefault("notify.smtp.subject_prefix", "[contract-sentinel]")

	// Runner defaults
	v.SetDefault("runner.schedule", "0 * * * *")
	v.SetDefault("runner.retrain", true)
	v.SetDefault("runner.run_on_start", true)

	// Source defaults
	v.SetDefault("source.path", "/data/contracts.json")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
