// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/berea-app/berea/api/schemas"
)

// Config holds the entire application configuration.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	ESV         ESVConfig         `mapstructure:"esv" yaml:"esv"`
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"-"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// ServerConfig tunes the HTTP proxy server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigin   string        `mapstructure:"allowed_origin" yaml:"allowed_origin"`
}

// LLMConfig tunes generation across all providers. Models maps a provider
// identifier to a model-name override; unset providers use their defaults
// from the provider table.
type LLMConfig struct {
	RequestTimeout time.Duration     `mapstructure:"request_timeout" yaml:"request_timeout"`
	Temperature    float32           `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens      int               `mapstructure:"max_tokens" yaml:"max_tokens"`
	Models         map[string]string `mapstructure:"models" yaml:"models"`
}

// ModelFor returns the configured model override for a provider, or empty.
func (c LLMConfig) ModelFor(id schemas.ProviderID) string {
	return c.Models[string(id)]
}

// ESVConfig tunes passage-text fetching.
type ESVConfig struct {
	Endpoint       string        `mapstructure:"endpoint" yaml:"endpoint"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// CredentialsConfig holds the server-side API keys, each sourced from its
// provider's canonical environment variable. Keys never appear in the config
// file on disk.
type CredentialsConfig struct {
	Groq       string `mapstructure:"groq"`
	OpenRouter string `mapstructure:"openrouter"`
	Gemini     string `mapstructure:"gemini"`
	Claude     string `mapstructure:"claude"`
	ESV        string `mapstructure:"esv"`
}

// Key returns the credential for one provider.
func (c CredentialsConfig) Key(id schemas.ProviderID) string {
	switch id {
	case schemas.ProviderGroq:
		return c.Groq
	case schemas.ProviderOpenRouter:
		return c.OpenRouter
	case schemas.ProviderGemini:
		return c.Gemini
	case schemas.ProviderClaude:
		return c.Claude
	}
	return ""
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "berea")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Server --
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origin", "*")

	// -- LLM --
	v.SetDefault("llm.request_timeout", "90s")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 8192)

	// -- ESV --
	v.SetDefault("esv.endpoint", "https://api.esv.org/v3/passage/text/")
	v.SetDefault("esv.request_timeout", "30s")
}

// BindCredentialEnv wires each credential to its provider's own canonical
// environment variable rather than the BEREA_ prefixed namespace.
func BindCredentialEnv(v *viper.Viper) {
	v.BindEnv("credentials.groq", CredentialEnv(schemas.ProviderGroq))
	v.BindEnv("credentials.openrouter", CredentialEnv(schemas.ProviderOpenRouter))
	v.BindEnv("credentials.gemini", CredentialEnv(schemas.ProviderGemini))
	v.BindEnv("credentials.claude", CredentialEnv(schemas.ProviderClaude))
	v.BindEnv("credentials.esv", ESVCredentialEnv)
}

// NewFromViper creates a configuration instance from a prepared viper object.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewDefault returns a configuration populated with defaults only.
func NewDefault() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("llm.request_timeout must be a positive duration")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be a positive integer")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	for name := range c.LLM.Models {
		if !schemas.ProviderID(name).Known() {
			return fmt.Errorf("llm.models references unknown provider %q", name)
		}
	}
	return nil
}
