package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"pdf-summarizer-mcp/validate"
)

const (
	AppName = "pdf-summarizer-mcp"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultOpenAIModel     = "gpt-3.5-turbo"
	DefaultMinTextLength   = validate.TextMinDefault
	DefaultMaxTextLength   = validate.TextMaxDefault
	DefaultMaxPDFChars     = 100000
	DefaultDownloadTimeout = 10 * time.Second
	DefaultDownloadMax     = 50 << 20
	DefaultHTTPAddr        = ":8000"
	DefaultUploadMax       = 50 << 20
)

// Config holds the application configuration
type Config struct {
	Debug     bool      `yaml:"debug" toml:"debug"`
	LLM       LLM       `yaml:"llm" toml:"llm"`
	Weather   Weather   `yaml:"weather" toml:"weather"`
	Search    Search    `yaml:"search" toml:"search"`
	Summarize Summarize `yaml:"summarize" toml:"summarize"`
	HTTP      HTTP      `yaml:"http" toml:"http"`
	Download  Download  `yaml:"download" toml:"download"`
	Telemetry Telemetry `yaml:"telemetry" toml:"telemetry"`
}

// LLM selects the summarization provider and holds per-provider credentials.
type LLM struct {
	Provider string `yaml:"provider" toml:"provider"`
	Gemini   Gemini `yaml:"gemini" toml:"gemini"`
	OpenAI   OpenAI `yaml:"openai" toml:"openai"`
}

type Gemini struct {
	APIKey  string `yaml:"api_key" toml:"api_key"`
	Model   string `yaml:"model" toml:"model"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

type OpenAI struct {
	APIKey  string `yaml:"api_key" toml:"api_key"`
	Model   string `yaml:"model" toml:"model"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

type Weather struct {
	APIKey  string `yaml:"api_key" toml:"api_key"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

// Summarize bounds the text accepted by the summarization tools.
type Summarize struct {
	MinTextLength int `yaml:"min_text_length" toml:"min_text_length"`
	MaxTextLength int `yaml:"max_text_length" toml:"max_text_length"`
	// MaxPDFChars truncates extracted PDF text before it is sent upstream.
	MaxPDFChars int `yaml:"max_pdf_chars" toml:"max_pdf_chars"`
}

type HTTP struct {
	Addr           string        `yaml:"addr" toml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

type Download struct {
	Timeout  time.Duration `yaml:"timeout" toml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes" toml:"max_bytes"`
	TempDir  string        `yaml:"temp_dir" toml:"temp_dir"`
}

type Search struct {
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

type Telemetry struct {
	SentryDSN   string `yaml:"sentry_dsn" toml:"sentry_dsn"`
	Environment string `yaml:"environment" toml:"environment"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		LLM: LLM{
			Provider: ProviderGemini,
			Gemini:   Gemini{Model: DefaultGeminiModel},
			OpenAI:   OpenAI{Model: DefaultOpenAIModel},
		},
		Summarize: Summarize{
			MinTextLength: DefaultMinTextLength,
			MaxTextLength: DefaultMaxTextLength,
			MaxPDFChars:   DefaultMaxPDFChars,
		},
		HTTP: HTTP{
			Addr:           DefaultHTTPAddr,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   120 * time.Second,
			MaxUploadBytes: DefaultUploadMax,
		},
		Download: Download{
			Timeout:  DefaultDownloadTimeout,
			MaxBytes: DefaultDownloadMax,
		},
	}
}

// GetConfig loads configuration from file and environment variables
func GetConfig(customPath string) (*Config, error) {
	cfg, err := LoadConfigNoValidate(customPath)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigNoValidate loads file and environment values without validation.
// Used by `config` to show whatever is currently set.
func LoadConfigNoValidate(customPath string) (*Config, error) {
	cfg := Default()

	// 1. Load from file
	configPath, err := ResolveConfigPath(customPath)
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err == nil {
			// Expand env vars before unmarshalling
			expanded := os.ExpandEnv(string(file))
			if err := decode(configPath, expanded, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// 2. Override with environment variables
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path, content string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(content, cfg)
		return err
	}
	return yaml.Unmarshal([]byte(content), cfg)
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.Gemini.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAI.APIKey = v
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("PDFSUM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" {
		cfg.Telemetry.SentryDSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.HTTP.Addr = ":" + strconv.Itoa(port)
	}
	if v := os.Getenv("PDFSUM_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PDFSUM_DEBUG: %w", err)
		}
		cfg.Debug = b
	}
	return nil
}

func validateConfig(cfg *Config) error {
	switch cfg.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q: must be %q or %q", cfg.LLM.Provider, ProviderGemini, ProviderOpenAI)
	}

	s := cfg.Summarize
	if s.MinTextLength < 0 {
		return fmt.Errorf("summarize.min_text_length must not be negative")
	}
	if s.MaxTextLength > 0 && s.MaxTextLength < s.MinTextLength {
		return fmt.Errorf("summarize.max_text_length (%d) is smaller than min_text_length (%d)", s.MaxTextLength, s.MinTextLength)
	}
	if s.MaxPDFChars < 0 {
		return fmt.Errorf("summarize.max_pdf_chars must not be negative")
	}

	if cfg.Download.Timeout <= 0 {
		return fmt.Errorf("download.timeout must be positive")
	}
	if cfg.Download.MaxBytes <= 0 {
		return fmt.Errorf("download.max_bytes must be positive")
	}
	if cfg.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("http.max_upload_bytes must be positive")
	}
	if cfg.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is not set")
	}
	return nil
}

// ResolveConfigPath returns customPath when set, otherwise the default
// location under the user's config directory.
func ResolveConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "config.yaml"), nil
}
