package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
// The env tag names the variable a field comes from; validation errors
// report it instead of the Go field name.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// ViaCEP lookup configuration. A zero timeout leaves the HTTP client
	// without a deadline.
	ViaCEPBaseURL string        `env:"VIACEP_BASE_URL" validate:"required,url"`
	ViaCEPTimeout time.Duration `env:"VIACEP_TIMEOUT" validate:"gte=0"`

	// Per-IP limits on form submits and API lookups.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" validate:"gt=0"`

	// Lookup event publishing.
	KafkaEnabled bool     `env:"KAFKA_ENABLED"`
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC"`
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	viacepTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("VIACEP_TIMEOUT", "0s"))
	if err != nil || viacepTimeout < 0 {
		return nil, errors.New("invalid VIACEP_TIMEOUT")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		ShutdownTimeout: shutdownTimeout,

		ViaCEPBaseURL: sharedcfg.EnvOrDefault("VIACEP_BASE_URL", "https://viacep.com.br/ws"),
		ViaCEPTimeout: viacepTimeout,

		RateLimitRPS:   rps,
		RateLimitBurst: burst,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "cep-lookups"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})

	return func(cfg *Config) error {
		err := v.Struct(cfg)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid %s: failed %q check", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
}
