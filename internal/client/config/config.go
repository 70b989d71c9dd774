// Package config loads the terminal client's settings from an optional
// YAML file and EMPDIR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultServerURL = "http://localhost:8084/api/v1"
	DefaultSessionDB = "empdir-session.db"
)

type Config struct {
	ServerURL string        `mapstructure:"server_url"`
	SessionDB string        `mapstructure:"session_db"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Load reads configFile when given, otherwise looks for empdir.yaml in the
// working directory. A missing default file is not an error.
func Load(configFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("server_url", DefaultServerURL)
	v.SetDefault("session_db", DefaultSessionDB)
	v.SetDefault("timeout", 15*time.Second)

	v.SetEnvPrefix("EMPDIR")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("empdir")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	parsed, err := url.Parse(c.ServerURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("server_url must be an http(s) url, got %q", c.ServerURL)
	}
	if strings.TrimSpace(c.SessionDB) == "" {
		return fmt.Errorf("session_db must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
