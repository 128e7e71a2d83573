package careermentor

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultAddr = ":8000"

// Config is the process-wide configuration. It is read once at startup and
// never mutated afterwards.
type Config struct {
	LLM LLMConfig `yaml:"llm"`

	// Addr is the listen address of the HTTP front end.
	Addr string `yaml:"addr"`

	// UsageDSN selects the PostgreSQL usage ledger. Empty keeps usage in memory.
	UsageDSN string `yaml:"usage_dsn"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:       DefaultBaseURL,
			Model:         DefaultModel,
			MaxToolRounds: DefaultMaxToolRounds,
		},
		Addr: DefaultAddr,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads .env, the optional YAML file at path (or
// CAREERMENTOR_CONFIG) and then environment overrides. The API key is
// required; ErrMissingAPIKey is returned without it.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("Error loading .env file, falling back to environment variables", "error", err)
	}

	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("CAREERMENTOR_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.LLM.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.LLM.APIKey = getEnv("GEMINI_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.BaseURL = getEnv("CAREERMENTOR_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = getEnv("CAREERMENTOR_MODEL", cfg.LLM.Model)
	cfg.Addr = getEnv("CAREERMENTOR_ADDR", cfg.Addr)
	cfg.UsageDSN = getEnv("CAREERMENTOR_USAGE_DSN", cfg.UsageDSN)
	cfg.Log.Level = getEnv("CAREERMENTOR_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("CAREERMENTOR_LOG_FORMAT", cfg.Log.Format)

	if value, ok := os.LookupEnv("CAREERMENTOR_TRACING"); ok {
		tracing, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid CAREERMENTOR_TRACING %q: %w", value, err)
		}
		cfg.LLM.Tracing = tracing
	}
	if value, ok := os.LookupEnv("CAREERMENTOR_MAX_TOOL_ROUNDS"); ok {
		rounds, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CAREERMENTOR_MAX_TOOL_ROUNDS %q: %w", value, err)
		}
		cfg.LLM.MaxToolRounds = rounds
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
