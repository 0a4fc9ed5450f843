package di

import (
	"flag"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/contract-sentinel/internal/adapters/runner"
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/factory"
	"github.com/mikey/contract-sentinel/internal/logging"
	"github.com/mikey/contract-sentinel/internal/ports"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Narrative LLM flags
	Provider      string
	MaxTokens     int
	Temperature   float64
	TopP          float64
	MaxReportSize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Engine flags
	ConfidenceThreshold float64
	MinRecords          int
	CVFolds             int
	Seed                int

	// Input and output flags
	InputFile  string
	JSONOutput bool
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	return ParseFlagSet(flag.CommandLine, os.Args[1:])
}

// ParseFlagSet registers the CLI flags on fs and parses args
func ParseFlagSet(fs *flag.FlagSet, args []string) *CLIFlags {
	flags := &CLIFlags{}
	defaults := core.DefaultConfig()

	// Narrative LLM flags
	fs.StringVar(&flags.Provider, "provider", "none", "LLM provider for the report briefing (none, bedrock, gemini, openai)")
	fs.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for LLM response")
	fs.Float64Var(&flags.Temperature, "temperature", 0.2, "Temperature for LLM generation")
	fs.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	fs.IntVar(&flags.MaxReportSize, "max-report-size", 8192, "Maximum report digest size to send to LLM")

	// Bedrock flags
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Engine flags
	fs.Float64Var(&flags.ConfidenceThreshold, "confidence", defaults.ConfidenceThreshold, "Minimum confidence to report a predicted status")
	fs.IntVar(&flags.MinRecords, "min-records", defaults.MinTrainingRecords, "Minimum records required to train")
	fs.IntVar(&flags.CVFolds, "cv-folds", defaults.CVFolds, "Cross-validation folds")
	fs.IntVar(&flags.Seed, "seed", int(defaults.Forest.Seed), "Random seed for model training")

	// Input and output flags
	fs.StringVar(&flags.InputFile, "file", "", "Record batch file (.json, .yaml or .yml)")
	fs.BoolVar(&flags.JSONOutput, "json", false, "Print the report as JSON")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging and per-contract details")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	fs.Parse(args)
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideCommon(container); err != nil {
		return nil, err
	}

	// Register record source, -file wins over source.path
	if err := container.Provide(func(f *factory.SourceFactory, flags *CLIFlags) (ports.RecordSource, error) {
		return f.CreateRecordSource(flags.InputFile)
	}); err != nil {
		return nil, err
	}

	// Register CLI runner
	if err := container.Provide(func(
		engine *core.RiskEngine,
		source ports.RecordSource,
		narrator core.Narrator,
		logger *zap.Logger,
		flags *CLIFlags,
	) ports.Runner {
		// The CLI prints the report itself, so no notifier
		pipeline := runner.NewPipeline(engine, source, narrator, nil, true, logger)
		return runner.NewCLIRunner(pipeline, os.Stdout, flags.JSONOutput, flags.Verbose, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// The CLI runs one pass, a cache would never be hit
	v.Set("cache.enabled", false)
	v.Set("notify.type", "none")

	// Engine settings
	v.Set("engine.confidence_threshold", flags.ConfidenceThreshold)
	v.Set("engine.min_training_records", flags.MinRecords)
	v.Set("engine.cv_folds", flags.CVFolds)
	v.Set("model.seed", flags.Seed)

	// Set LLM provider
	v.Set("llm.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_report_size", flags.MaxReportSize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_report_size", flags.MaxReportSize)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_report_size", flags.MaxReportSize)
	}

	return config.NewFromViper(v)
}
