package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", string(ModeLocal))

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("gcp.project", "")
	v.SetDefault("gcp.location", "us-central1")

	v.SetDefault("llm.provider", "mock")
	v.SetDefault("llm.backend", "gemini_api")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.plan_models", []string{"gemini-3-flash-preview", "gemini-2.5-flash"})
	v.SetDefault("llm.chat_models", []string{"gemini-3-flash-preview", "gemini-2.5-flash"})
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.collection", "user_states")
	v.SetDefault("storage.sqlite_path", "data/compass.db")

	v.SetDefault("auth.tokens", "")
	v.SetDefault("auth.trust_user_header", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	v.SetDefault("client.server", "http://localhost:8080")
	v.SetDefault("client.token", "")
	v.SetDefault("client.debounce", "700ms")
	v.SetDefault("client.timeout", "90s")
}

// NewViper returns a viper instance with defaults and COMPASS_* environment
// binding. GEMINI_API_KEY is honoured as an alias for the api key.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", "COMPASS_LLM_API_KEY", "GEMINI_API_KEY")
	return v
}

// Load reads configuration with this precedence (highest first):
//  1. Environment variables (COMPASS_* prefix)
//  2. Config file (COMPASS_CONFIG, or ./compass.yaml when present)
//  3. Built-in defaults
//
// The result is not validated; servers call Validate, the CLI only reads Client.
func Load() (*Config, error) {
	return LoadFrom(NewViper())
}

// LoadFrom unmarshals an already prepared viper instance (the CLI binds flags first).
func LoadFrom(v *viper.Viper) (*Config, error) {
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Mode = Mode(strings.ToLower(string(cfg.Mode)))
	return &cfg, nil
}

func readConfigFile(v *viper.Viper) error {
	if path := os.Getenv("COMPASS_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("compass")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if stderrors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
