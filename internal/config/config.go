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

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultAPIURL is the agent API the CLI client talks to.
	DefaultAPIURL = "http://localhost:8080"

	// DefaultTimeout bounds a single API request from the CLI client.
	DefaultTimeout = 30 * time.Second

	// EnvPrefix prefixes environment overrides for client settings (AGENTDESK_TOKEN, ...).
	EnvPrefix = "AGENTDESK"
)

// ClientConfig holds settings for the CLI client.
type ClientConfig struct {
	APIURL   string        `mapstructure:"api_url"`
	Token    string        `mapstructure:"token"`
	LogLevel string        `mapstructure:"log_level"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DefaultClientConfigPath returns ~/.agentdesk.yaml, or "" if the home directory is unknown.
func DefaultClientConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agentdesk.yaml")
}

// LoadClient reads client settings from the YAML file at path (optional)
// and AGENTDESK_* environment variables. Environment wins over the file.
func LoadClient(path string) (*ClientConfig, error) {
	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("token", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("timeout", DefaultTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode client config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &cfg, nil
}
