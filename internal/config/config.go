// Package config loads the lynx configuration and builds the provider
// registry it describes.
//
// Values come from, highest precedence first: LYNX_ prefixed environment
// variables (a .env file is honoured by the binary), the YAML file passed on
// the command line or found as lynx.yaml in the working directory or in
// $XDG_CONFIG_HOME/lynx, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "LYNX"

// Config holds all configuration for lynx.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Log       LogConfig        `mapstructure:"log"`
	NATS      NATSConfig       `mapstructure:"nats"`
	Synthesis SynthesisConfig  `mapstructure:"synthesis"`
	Providers []ProviderConfig `mapstructure:"providers"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// NATSConfig enables publishing run events to NATS.
type NATSConfig struct {
	// URL of an existing server. Empty disables publishing unless Embedded is set.
	URL string `mapstructure:"url"`
	// Embedded starts an in-process server on Port.
	Embedded bool `mapstructure:"embedded"`
	Port     int  `mapstructure:"port"`
}

// Enabled reports whether events should be published to NATS.
func (c NATSConfig) Enabled() bool {
	return c.URL != "" || c.Embedded
}

// SynthesisConfig selects the summary stage.
type SynthesisConfig struct {
	// Provider is the id of a configured provider used to summarize. Empty
	// selects the built-in preview.
	Provider string        `mapstructure:"provider"`
	Delay    time.Duration `mapstructure:"delay"`
}

// ProviderConfig describes one provider of the registry.
type ProviderConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
	// Kind is one of mock, ollama or openai.
	Kind  string `mapstructure:"kind"`
	Model string `mapstructure:"model"`
	Local bool   `mapstructure:"local"`

	// ollama and openai
	BaseURL string `mapstructure:"base_url"`
	// openai only; ${VAR} references are expanded
	APIKey      string  `mapstructure:"api_key"`
	Temperature float64 `mapstructure:"temperature"`
	// ollama only
	MaxMalformedLines int `mapstructure:"max_malformed_lines"`

	// mock only
	Delay     time.Duration `mapstructure:"delay"`
	Fragments []string      `mapstructure:"fragments"`
	FailAfter *int          `mapstructure:"fail_after"`
}

// DefaultProviders is the demo set used when no provider is configured.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{ID: "gpt4", Name: "GPT-4", Kind: KindMock, Delay: 100 * time.Millisecond},
		{ID: "claude", Name: "Claude 3", Kind: KindMock, Delay: 150 * time.Millisecond},
		{ID: "local", Name: "Local Llama", Kind: KindMock, Delay: 50 * time.Millisecond, Local: true},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.embedded", false)
	v.SetDefault("nats.port", 4222)
	v.SetDefault("synthesis.provider", "")
	v.SetDefault("synthesis.delay", 50*time.Millisecond)
}

// Load reads the configuration. An empty path searches the default locations;
// a missing file there is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lynx")
		v.AddConfigPath(".")
		v.AddConfigPath(userConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if len(cfg.Providers) == 0 {
		cfg.Providers = DefaultProviders()
	}
	for i := range cfg.Providers {
		cfg.Providers[i].APIKey = os.ExpandEnv(cfg.Providers[i].APIKey)
	}
	return cfg, nil
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lynx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "lynx")
}
