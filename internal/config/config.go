// Package config loads the service configuration from defaults, an optional
// config file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RESUME_TAILOR_LLM_PROVIDER
const EnvPrefix = "RESUME_TAILOR"

// Config holds all service configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Render        RenderConfig        `mapstructure:"render"`
	Log           LogConfig           `mapstructure:"log"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	PDF           PDFConfig           `mapstructure:"pdf"`
	Auth          AuthConfig          `mapstructure:"auth"`
	RateLimit     RateLimitConfig     `mapstructure:"rateLimit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	PublicBaseURL  string        `mapstructure:"publicBaseURL"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	MaxUploadBytes int64         `mapstructure:"maxUploadBytes"`
	CORSOrigin     string        `mapstructure:"corsOrigin"`
}

// DatabaseConfig holds the Postgres connection
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LLMConfig selects the provider and models
type LLMConfig struct {
	Provider      string `mapstructure:"provider"`
	GeminiAPIKey  string `mapstructure:"geminiAPIKey"`
	OpenAIAPIKey  string `mapstructure:"openaiAPIKey"`
	OpenAIBaseURL string `mapstructure:"openaiBaseURL"`
	// Per-tier model overrides; empty values keep the provider defaults
	LiteModel     string  `mapstructure:"liteModel"`
	StandardModel string  `mapstructure:"standardModel"`
	AdvancedModel string  `mapstructure:"advancedModel"`
	Temperature   float32 `mapstructure:"temperature"`
}

// APIKey returns the key of the selected provider
func (c LLMConfig) APIKey() string {
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// StorageConfig selects the object storage backend
type StorageConfig struct {
	Backend       string `mapstructure:"backend"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"publicBaseURL"`
	Dir           string `mapstructure:"dir"`
}

// RenderConfig controls headless Chrome PDF rendering
type RenderConfig struct {
	ChromeRemoteURL string        `mapstructure:"chromeRemoteURL"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig controls metrics and tracing
type ObservabilityConfig struct {
	MetricsEnabled  bool   `mapstructure:"metricsEnabled"`
	TracingExporter string `mapstructure:"tracingExporter"`
	OTLPEndpoint    string `mapstructure:"otlpEndpoint"`
	ServiceName     string `mapstructure:"serviceName"`
}

// PDFConfig holds the unidoc license used for PDF text extraction
type PDFConfig struct {
	LicenseKey string `mapstructure:"licenseKey"`
}

// AuthConfig holds the JWT and password hashing settings
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwtSecret"`
	JWTExpirationHours int    `mapstructure:"jwtExpirationHours"`
	BcryptCost         int    `mapstructure:"bcryptCost"`
	PasswordPepper     string `mapstructure:"passwordPepper"`
	SecureCookies      bool   `mapstructure:"secureCookies"`
}

// RateLimitConfig sets the default per-client limit of the API. Allowlisted
// clients are never limited and blocklisted ones always are.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"defaultLimit"`
	DefaultWindow   time.Duration `mapstructure:"defaultWindow"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
	Allowlist       []string      `mapstructure:"allowlist"`
	Blocklist       []string      `mapstructure:"blocklist"`
}

// bareEnv maps config keys to the conventional unprefixed variables
var bareEnv = map[string]string{
	"database.url":            "DATABASE_URL",
	"llm.geminiAPIKey":        "GEMINI_API_KEY",
	"llm.openaiAPIKey":        "OPENAI_API_KEY",
	"server.port":             "PORT",
	"auth.jwtSecret":          "JWT_SECRET",
	"auth.jwtExpirationHours": "JWT_EXPIRATION_HOURS",
	"auth.bcryptCost":         "BCRYPT_COST",
	"auth.passwordPepper":     "PASSWORD_PEPPER",
	"pdf.licenseKey":          "UNIDOC_LICENSE_API_KEY",
	"rateLimit.enabled":       "RATE_LIMIT_ENABLED",
	"rateLimit.defaultLimit":  "RATE_LIMIT_DEFAULT_LIMIT",
	"rateLimit.defaultWindow": "RATE_LIMIT_DEFAULT_WINDOW",
	"rateLimit.allowlist":     "RATE_LIMIT_ALLOWLIST",
	"rateLimit.blocklist":     "RATE_LIMIT_BLOCKLIST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.publicBaseURL", "http://localhost:8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 300*time.Second)
	v.SetDefault("server.maxUploadBytes", 16<<20)
	v.SetDefault("server.corsOrigin", "*")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.temperature", 0.2)

	v.SetDefault("storage.backend", "database")
	v.SetDefault("storage.dir", "./files")

	v.SetDefault("render.timeout", 60*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("observability.metricsEnabled", true)
	v.SetDefault("observability.tracingExporter", "none")
	v.SetDefault("observability.serviceName", "resume-tailor")

	v.SetDefault("auth.jwtExpirationHours", 24)
	v.SetDefault("auth.bcryptCost", 12)

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.defaultLimit", 1000)
	v.SetDefault("rateLimit.defaultWindow", time.Minute)
	v.SetDefault("rateLimit.cleanupInterval", 5*time.Minute)
}

// Load reads the configuration. Precedence, lowest first: defaults, the config
// file at path (YAML or JSON, skipped when path is empty), unprefixed variables
// such as DATABASE_URL, then RESUME_TAILOR_* variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range bareEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks enumerated settings and ranges
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("config error: 'server.maxUploadBytes' must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit <= 0 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: 'rateLimit.defaultLimit' and 'rateLimit.defaultWindow' must be positive")
	}
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("config error: unknown llm provider %q (want gemini or openai)", c.LLM.Provider)
	}
	switch c.Storage.Backend {
	case "database", "local":
	case "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("config error: 'storage.bucket' is required for the gcs backend")
		}
	default:
		return fmt.Errorf("config error: unknown storage backend %q (want database, gcs or local)", c.Storage.Backend)
	}
	switch c.Observability.TracingExporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("config error: unknown tracing exporter %q (want none, stdout or otlp)", c.Observability.TracingExporter)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config error: unknown log format %q (want json or console)", c.Log.Format)
	}
	return nil
}
