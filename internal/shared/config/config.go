package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const appName = "atscan"

// Config holds application configuration.
type Config struct {
	Port               string   `mapstructure:"port" validate:"required"`
	Env                string   `mapstructure:"env" validate:"oneof=dev local staging production"`
	CORSAllowOrigin    []string `mapstructure:"cors_allow_origins"`
	DatabaseURL        string   `mapstructure:"database_url"`
	LogJSON            bool     `mapstructure:"log_json"`
	LogDebug           bool     `mapstructure:"log_debug"`
	RateLimitRPS       float64  `mapstructure:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst" validate:"gte=0"`
	MaxUploadBytes     int64    `mapstructure:"max_upload_bytes" validate:"gt=0"`
	IncludeTextDefault bool     `mapstructure:"include_text_default"`
	OTLPEndpoint       string   `mapstructure:"otel_exporter_otlp_endpoint" validate:"omitempty,hostname_port"`
}

// Load reads configuration from the environment, an optional atscan.yaml and .env files.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

// MustLoad is Load for entrypoints that cannot continue without configuration.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "dev")
	v.SetDefault("cors_allow_origins", "http://localhost:3000")
	v.SetDefault("database_url", "")
	v.SetDefault("log_json", true)
	v.SetDefault("log_debug", false)
	v.SetDefault("rate_limit_rps", 2.0)
	v.SetDefault("rate_limit_burst", 10)
	v.SetDefault("max_upload_bytes", int64(10<<20))
	v.SetDefault("include_text_default", true)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:               v.GetString("port"),
		Env:                normalizeEnv(v.GetString("env")),
		CORSAllowOrigin:    splitAndTrim(v.GetString("cors_allow_origins")),
		DatabaseURL:        strings.TrimSpace(v.GetString("database_url")),
		LogJSON:            v.GetBool("log_json"),
		LogDebug:           v.GetBool("log_debug"),
		RateLimitRPS:       v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		MaxUploadBytes:     v.GetInt64("max_upload_bytes"),
		IncludeTextDefault: v.GetBool("include_text_default"),
		OTLPEndpoint:       strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
