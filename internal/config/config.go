package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Platform PlatformConfig `mapstructure:"platform" validate:"required"`
	AI       AIConfig       `mapstructure:"ai"`
	Runner   RunnerConfig   `mapstructure:"runner"`
}

// ServerConfig contains the operator HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the account/outcome store settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains the operator API token settings. BootstrapSecret
// is the shared secret exchanged for a JWT at the token endpoint.
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"        validate:"required,min=32"`
	BootstrapSecret string `mapstructure:"bootstrap_secret"  validate:"required,min=12"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes" validate:"gte=0"`
}

// PlatformConfig contains settings for the membership platform API.
type PlatformConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// AIConfig contains the answer-source settings for the daily question.
// When ManualAnswer is true the AI fields may be left empty; in AI mode
// the resolver requires key, URL and model to be non-empty before it
// issues any network call.
type AIConfig struct {
	ManualAnswer  bool   `mapstructure:"manual_answer"`
	Backend       string `mapstructure:"backend" validate:"omitempty,oneof=openai gemini"`
	APIKey        string `mapstructure:"api_key"`
	RequestURL    string `mapstructure:"request_url"`
	Model         string `mapstructure:"model"`
	RequestParams string `mapstructure:"request_params"`
}

// RunnerConfig contains batch-processing settings. WorkerCount 1
// processes accounts one at a time in registry order.
type RunnerConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize   int `mapstructure:"queue_size"   validate:"gte=1"`
}
