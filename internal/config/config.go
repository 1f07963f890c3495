package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

var (
	ErrInvalidMode    = errors.New("invalid mode")
	ErrInvalidLLM     = errors.New("invalid llm configuration")
	ErrInvalidStorage = errors.New("invalid storage configuration")
	ErrInvalidAuth    = errors.New("invalid auth configuration")
)

type Config struct {
	Mode Mode `mapstructure:"mode"`

	HTTP    HTTPConfig    `mapstructure:"http"`
	GCP     GCPConfig     `mapstructure:"gcp"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
	Client  ClientConfig  `mapstructure:"client"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type GCPConfig struct {
	Project  string `mapstructure:"project"`
	Location string `mapstructure:"location"`
}

type LLMConfig struct {
	Provider   string        `mapstructure:"provider"` // "mock" or "gemini"
	Backend    string        `mapstructure:"backend"`  // "gemini_api" or "vertex"
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	PlanModels []string      `mapstructure:"plan_models"`
	ChatModels []string      `mapstructure:"chat_models"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Backend    string `mapstructure:"backend"` // "memory", "firestore" or "sqlite"
	Collection string `mapstructure:"collection"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type AuthConfig struct {
	// Tokens maps bearer tokens to user ids: "token1=user1,token2=user2".
	Tokens string `mapstructure:"tokens"`
	// TrustUserHeader accepts X-User-ID as the identity. Local mode only.
	TrustUserHeader bool `mapstructure:"trust_user_header"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ClientConfig is read by the compass CLI.
type ClientConfig struct {
	Server   string        `mapstructure:"server"`
	Token    string        `mapstructure:"token"`
	Debounce time.Duration `mapstructure:"debounce"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TokenTable parses Auth.Tokens.
func (a AuthConfig) TokenTable() (map[string]string, error) {
	table := make(map[string]string)
	for _, pair := range strings.Split(a.Tokens, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, user, ok := strings.Cut(pair, "=")
		token, user = strings.TrimSpace(token), strings.TrimSpace(user)
		if !ok || token == "" || user == "" {
			return nil, fmt.Errorf("%w: malformed token entry %q", ErrInvalidAuth, pair)
		}
		table[token] = user
	}
	return table, nil
}

// Validate checks the server-side settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch cfg.Mode {
	case ModeLocal, ModeGCP:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, cfg.Mode)
	}

	switch cfg.LLM.Provider {
	case "mock":
	case "gemini":
		switch cfg.LLM.Backend {
		case "gemini_api":
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("%w: api_key required for gemini_api backend", ErrInvalidLLM)
			}
		case "vertex":
			if cfg.GCP.Project == "" || cfg.GCP.Location == "" {
				return fmt.Errorf("%w: gcp project and location required for vertex backend", ErrInvalidLLM)
			}
		default:
			return fmt.Errorf("%w: unknown backend %q", ErrInvalidLLM, cfg.LLM.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidLLM, cfg.LLM.Provider)
	}
	if len(cfg.LLM.PlanModels) == 0 || len(cfg.LLM.ChatModels) == 0 {
		return fmt.Errorf("%w: plan_models and chat_models must not be empty", ErrInvalidLLM)
	}

	switch cfg.Storage.Backend {
	case "memory":
	case "firestore":
		if cfg.GCP.Project == "" {
			return fmt.Errorf("%w: gcp project required for firestore", ErrInvalidStorage)
		}
	case "sqlite":
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path required", ErrInvalidStorage)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorage, cfg.Storage.Backend)
	}

	if _, err := cfg.Auth.TokenTable(); err != nil {
		return err
	}
	if cfg.Auth.TrustUserHeader && cfg.Mode != ModeLocal {
		return fmt.Errorf("%w: trust_user_header is only allowed in local mode", ErrInvalidAuth)
	}

	return nil
}
