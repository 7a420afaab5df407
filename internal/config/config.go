package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultSummaryPrompt is the journaling prompt; %s receives the entry text.
const DefaultSummaryPrompt = `You are an AI assistant helping to summarize and provide insights on a personal journal entry.
Please provide a thoughtful, concise summary (2-3 sentences) followed by 1-2 key insights or reflections.
Be empathetic, supportive, and focus on the emotional themes present in the entry.

Journal entry:
%s

Summary and insights:`

type ServerConfig struct {
	Addr                   string  `toml:"addr"`
	Mode                   string  `toml:"mode"`
	ShutdownTimeoutSeconds int     `toml:"shutdown_timeout_seconds"`
	SummarizePerMinute     float64 `toml:"summarize_per_minute"`
	SummarizeBurst         int     `toml:"summarize_burst"`
}

type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	Issuer        string `toml:"issuer"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
}

type StoreConfig struct {
	// Driver is one of memory, postgres, sqlite, memgraph.
	Driver      string `toml:"driver"`
	DSN         string `toml:"dsn"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

type SummaryConfig struct {
	// Entry is a fmt template with a single %s for the entry text.
	Entry                 string `toml:"entry"`
	TimeoutSeconds        int    `toml:"timeout_seconds"`
	PersistTimeoutSeconds int    `toml:"persist_timeout_seconds"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Store    StoreConfig    `toml:"store"`
	LLM      LLMConfig      `toml:"llm"`
	Summary  SummaryConfig  `toml:"summary"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Log      LogConfig      `toml:"log"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                   ":8080",
			Mode:                   "release",
			ShutdownTimeoutSeconds: 10,
			SummarizePerMinute:     10,
			SummarizeBurst:         3,
		},
		Auth: AuthConfig{
			Issuer:        "jai",
			TokenTTLHours: 24,
		},
		Store: StoreConfig{
			Driver:      "memory",
			AutoMigrate: true,
		},
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "tinyllama",
			BaseURL:     "http://localhost:11434",
			Temperature: 0.7,
			MaxTokens:   300,
		},
		Summary: SummaryConfig{
			Entry:                 DefaultSummaryPrompt,
			TimeoutSeconds:        30,
			PersistTimeoutSeconds: 5,
		},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads defaults, then the TOML file at path (skipped when path is
// empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set and
// non-empty.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.APIKey, "LLM_API_KEY")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")
	set(&c.Auth.JWTSecret, "JWT_SECRET")
	set(&c.Store.Driver, "STORE_DRIVER")
	set(&c.Store.DSN, "STORE_DSN")
	set(&c.Memgraph.URI, "MEMGRAPH_URI")
	set(&c.Memgraph.User, "MEMGRAPH_USER")
	set(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	set(&c.Log.Level, "LOG_LEVEL")

	if port := getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if v := getenv("SUMMARY_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Summary.TimeoutSeconds = n
		}
	}
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required"))
	}
	switch strings.ToLower(c.Store.Driver) {
	case "memory", "memgraph":
	case "postgres", "sqlite":
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported store driver %q", c.Store.Driver))
	}
	if strings.Count(c.Summary.Entry, "%s") != 1 {
		errs = append(errs, errors.New("summary.entry must contain exactly one %s"))
	}
	if c.Summary.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("summary.timeout_seconds must be positive"))
	}
	if c.Server.SummarizePerMinute < 0 || c.Server.SummarizeBurst < 0 {
		errs = append(errs, errors.New("server summarize limits must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) SummaryTimeout() time.Duration {
	return time.Duration(c.Summary.TimeoutSeconds) * time.Second
}

func (c *Config) PersistTimeout() time.Duration {
	if c.Summary.PersistTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Summary.PersistTimeoutSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}
