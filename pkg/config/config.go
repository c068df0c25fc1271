// Package config loads the storefront configuration from an optional
// config.yaml with environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Session  SessionConfig  `mapstructure:"session"`
	Engage   EngageConfig   `mapstructure:"engagement"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Waitlist WaitlistConfig `mapstructure:"waitlist"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type SessionConfig struct {
	TTLMinutes   int `mapstructure:"ttl_minutes"`
	SweepSeconds int `mapstructure:"sweep_seconds"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

func (s SessionConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepSeconds) * time.Second
}

type EngageConfig struct {
	// ViewThreshold is the visible-area fraction that triggers the
	// auto-add-on-view mechanic.
	ViewThreshold float64 `mapstructure:"view_threshold"`
}

type CheckoutConfig struct {
	ShippingFee int64  `mapstructure:"shipping_fee"`
	SuccessURL  string `mapstructure:"success_url"`
	FailURL     string `mapstructure:"fail_url"`
}

type PaymentConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ClientKey      string `mapstructure:"client_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (p PaymentConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type WaitlistConfig struct {
	Endpoint          string `mapstructure:"endpoint"`
	RequestsPerSecond int    `mapstructure:"requests_per_second"`
	QueueSize         int    `mapstructure:"queue_size"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
}

func (w WaitlistConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// Load reads config.yaml from the working directory when present and applies
// environment overrides either way (e.g. SERVER_PORT, APP_LOG_LEVEL).
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("session.ttl_minutes", 30)
	viper.SetDefault("session.sweep_seconds", 60)

	viper.SetDefault("engagement.view_threshold", 0.5)

	viper.SetDefault("checkout.shipping_fee", 0)
	viper.SetDefault("checkout.success_url", "https://lockin.coffee/checkout?success=true")
	viper.SetDefault("checkout.fail_url", "https://lockin.coffee/checkout?fail=true")

	viper.SetDefault("payment.base_url", "https://api.tosspayments.com")
	viper.SetDefault("payment.client_key", "test_ck_D5GePWvyJnrK0W0k6q8gLzN97Eoq")
	viper.SetDefault("payment.timeout_seconds", 30)

	viper.SetDefault("waitlist.endpoint", "")
	viper.SetDefault("waitlist.requests_per_second", 2)
	viper.SetDefault("waitlist.queue_size", 256)
	viper.SetDefault("waitlist.timeout_seconds", 15)
}
