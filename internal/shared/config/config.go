package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Tenant    TenantConfig    `mapstructure:"tenant"`
	Inbox     InboxConfig     `mapstructure:"inbox"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	I18n      I18nConfig      `mapstructure:"i18n"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"`
}

// BackendConfig describes the REST backend the console forwards to.
type BackendConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
	FailureThreshold    uint32        `mapstructure:"failure_threshold"`
	CircuitTimeout      time.Duration `mapstructure:"circuit_timeout"`
	CircuitInterval     time.Duration `mapstructure:"circuit_interval"`
	// NavigationPaths are backend redirect targets the browser must follow.
	NavigationPaths []string `mapstructure:"navigation_paths"`
}

// AuthConfig holds auth screen behavior.
type AuthConfig struct {
	TokenCookie    string         `mapstructure:"token_cookie"`
	FlowCookie     string         `mapstructure:"flow_cookie"`
	LoginPath      string         `mapstructure:"login_path"`
	HomePath       string         `mapstructure:"home_path"`
	ResendCooldown time.Duration  `mapstructure:"resend_cooldown"`
	MaxFlows       int            `mapstructure:"max_flows"`
	Password       PasswordPolicy `mapstructure:"password"`
	// RateLimit caps auth submissions per client IP and RateLimitWindow.
	// Zero disables the limit.
	RateLimit       int           `mapstructure:"rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
}

// PasswordPolicy is the client-side password rule set.
type PasswordPolicy struct {
	MinLength      int  `mapstructure:"min_length"`
	MaxLength      int  `mapstructure:"max_length"`
	RequireUpper   bool `mapstructure:"require_upper"`
	RequireLower   bool `mapstructure:"require_lower"`
	RequireNumber  bool `mapstructure:"require_number"`
	RequireSpecial bool `mapstructure:"require_special"`
}

// TenantConfig holds tenant context configuration.
type TenantConfig struct {
	Kind         string        `mapstructure:"kind"`
	SwitchDelay  time.Duration `mapstructure:"switch_delay"`
	MaxSessions  int           `mapstructure:"max_sessions"`
	SettingsPath string        `mapstructure:"settings_path"`
}

// InboxConfig holds notification reconciliation configuration.
type InboxConfig struct {
	CheckConcurrency int           `mapstructure:"check_concurrency"`
	MarkReadTimeout  time.Duration `mapstructure:"mark_read_timeout"`
	MarkedMemo       int           `mapstructure:"marked_memo"`
}

// StoreConfig selects where tenant selections and cooldowns live.
type StoreConfig struct {
	// Driver is one of memory, redis or postgres.
	Driver    string        `mapstructure:"driver"`
	MaxKeys   int           `mapstructure:"max_keys"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds cross-origin settings for browser clients.
type CORSConfig struct {
	AllowOrigins []string      `mapstructure:"allow_origins"`
	MaxAge       time.Duration `mapstructure:"max_age"`
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// TelemetryConfig holds tracing configuration.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Version     string `mapstructure:"version"`
}

// I18nConfig lists the languages the console can serve.
type I18nConfig struct {
	Supported    []string      `mapstructure:"supported"`
	Default      string        `mapstructure:"default"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieMaxAge time.Duration `mapstructure:"cookie_max_age"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/console")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Secrets are read from the environment even when a config file sets them.
	if password := os.Getenv("CONSOLE_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if password := os.Getenv("CONSOLE_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	switch c.Store.Driver {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("store.driver %q: must be memory, redis or postgres", c.Store.Driver)
	}
	if c.Auth.Password.MinLength <= 0 || c.Auth.Password.MaxLength < c.Auth.Password.MinLength {
		return fmt.Errorf("auth.password: invalid length bounds %d..%d",
			c.Auth.Password.MinLength, c.Auth.Password.MaxLength)
	}
	if c.Inbox.CheckConcurrency <= 0 {
		return errors.New("inbox.check_concurrency must be positive")
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.mode", "release")

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("backend.max_idle_conns", 100)
	v.SetDefault("backend.max_idle_conns_per_host", 20)
	v.SetDefault("backend.idle_conn_timeout", 90*time.Second)
	v.SetDefault("backend.failure_threshold", 5)
	v.SetDefault("backend.circuit_timeout", 30*time.Second)
	v.SetDefault("backend.circuit_interval", 60*time.Second)
	v.SetDefault("backend.navigation_paths", []string{"/auth/verify"})

	// Auth defaults
	v.SetDefault("auth.token_cookie", "bp_access_token")
	v.SetDefault("auth.flow_cookie", "console_flow")
	v.SetDefault("auth.login_path", "/auth/login")
	v.SetDefault("auth.home_path", "/dashboard")
	v.SetDefault("auth.resend_cooldown", 60*time.Second)
	v.SetDefault("auth.max_flows", 10000)
	v.SetDefault("auth.rate_limit", 30)
	v.SetDefault("auth.rate_limit_window", time.Minute)
	v.SetDefault("auth.password.min_length", 8)
	v.SetDefault("auth.password.max_length", 128)
	v.SetDefault("auth.password.require_upper", true)
	v.SetDefault("auth.password.require_lower", true)
	v.SetDefault("auth.password.require_number", true)
	v.SetDefault("auth.password.require_special", true)

	// Tenant defaults
	v.SetDefault("tenant.kind", "team")
	v.SetDefault("tenant.switch_delay", 450*time.Millisecond)
	v.SetDefault("tenant.max_sessions", 10000)
	v.SetDefault("tenant.settings_path", "/dashboard/settings")

	// Inbox defaults
	v.SetDefault("inbox.check_concurrency", 8)
	v.SetDefault("inbox.mark_read_timeout", 5*time.Second)
	v.SetDefault("inbox.marked_memo", 4096)

	// Store defaults
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.max_keys", 10000)
	v.SetDefault("store.key_prefix", "console:")
	v.SetDefault("store.ttl", 180*24*time.Hour)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "console")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// CORS defaults
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.max_age", 12*time.Hour)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "console")
	v.SetDefault("metrics.path", "/metrics")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "console")
	v.SetDefault("telemetry.version", "0.1.0")

	// I18n defaults
	v.SetDefault("i18n.supported", []string{"en", "ru", "de", "es", "fr"})
	v.SetDefault("i18n.default", "en")
	v.SetDefault("i18n.cookie_name", "NEXT_LOCALE")
	v.SetDefault("i18n.cookie_max_age", 180*24*time.Hour)
}
