package config

import "time"

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Server     ServerConfig   `mapstructure:"server"`
	Metrics    MetricsConfig  `mapstructure:"metrics"`
	Notifier   NotifierConfig `mapstructure:"notifier"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type NotifierConfig struct {
	WebhookURL   string        `mapstructure:"webhook_url"`
	Secret       string        `mapstructure:"secret"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

type DefaultsConfig struct {
	Currency string `mapstructure:"currency"`
}

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: ""},
		Server:   ServerConfig{Addr: ":8080"},
		Metrics:  MetricsConfig{Enabled: true, Addr: ":9090"},
		Notifier: NotifierConfig{
			PollInterval: 5 * time.Second,
			MaxAttempts:  5,
		},
		Defaults: DefaultsConfig{Currency: "USD"},
	}
}
