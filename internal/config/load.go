package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables with the HBM_
// prefix (nested keys joined with underscores, e.g. HBM_SERVER_PORT)
// and validates the result. Environment variables take precedence over
// defaults. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("platform.base_url", "https://bm2-api.bluemembers.com.cn")
	v.SetDefault("auth.token_ttl_minutes", 60)
	v.SetDefault("ai.manual_answer", true)
	v.SetDefault("ai.backend", "openai")
	v.SetDefault("runner.worker_count", 1)
	v.SetDefault("runner.queue_size", 100)

	v.SetEnvPrefix("HBM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys to Unmarshal,
	// so bind every key we read explicitly.
	keys := []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"auth.bootstrap_secret",
		"auth.token_ttl_minutes",
		"platform.base_url",
		"ai.manual_answer",
		"ai.backend",
		"ai.api_key",
		"ai.request_url",
		"ai.model",
		"ai.request_params",
		"runner.worker_count",
		"runner.queue_size",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
