package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application-wide configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	QR         QRConfig         `mapstructure:"qr"`
	Payroll    PayrollConfig    `mapstructure:"payroll"`
	Jobs       JobsConfig       `mapstructure:"jobs"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings. Redis is optional at runtime.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings.
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
	LoginRateLimit int           `mapstructure:"login_rate_limit"` // requests per minute per IP
}

// LogConfig logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AttendanceConfig controls how calendar days are derived.
type AttendanceConfig struct {
	// Timezone is the IANA zone whose local midnight starts an attendance day.
	Timezone     string `mapstructure:"timezone"`
	DefaultLimit int    `mapstructure:"default_limit"`
	MaxLimit     int    `mapstructure:"max_limit"`
}

// Location resolves Timezone. Validate guarantees it loads.
func (c *AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// QR duration policies.
const (
	QRPolicyEndOfDay = "end_of_day"
	QRPolicyFixed    = "fixed"
)

// QRConfig controls QR session issuance.
type QRConfig struct {
	DurationPolicy    string        `mapstructure:"duration_policy"`
	DefaultTTL        time.Duration `mapstructure:"default_ttl"`
	MaxTTL            time.Duration `mapstructure:"max_ttl"`
	ReuseActive       bool          `mapstructure:"reuse_active"`
	CacheEnabled      bool          `mapstructure:"cache_enabled"`
	ValidateRateLimit int           `mapstructure:"validate_rate_limit"` // requests per minute per IP
}

// PayrollConfig defaults used when provisioning staff profiles.
type PayrollConfig struct {
	DefaultDesignation string `mapstructure:"default_designation"`
	DefaultSalaryType  string `mapstructure:"default_salary_type"`
	DefaultBaseSalary  int64  `mapstructure:"default_base_salary"`
}

// JobsConfig background job settings. A zero interval disables the job.
type JobsConfig struct {
	SalaryRecomputeInterval time.Duration `mapstructure:"salary_recompute_interval"`
}

// SentryConfig error reporting. An empty DSN disables reporting.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	Release     string `mapstructure:"release"`
}

// Load reads configuration with precedence env > file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "library")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Kolkata")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// empty defaults register the keys so env-only values reach Unmarshal
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "24h")
	v.SetDefault("auth.issuer", "library-management")
	v.SetDefault("auth.login_rate_limit", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("attendance.timezone", "Asia/Kolkata")
	v.SetDefault("attendance.default_limit", 60)
	v.SetDefault("attendance.max_limit", 366)

	v.SetDefault("qr.duration_policy", QRPolicyEndOfDay)
	v.SetDefault("qr.default_ttl", "2m")
	v.SetDefault("qr.max_ttl", "24h")
	v.SetDefault("qr.reuse_active", true)
	v.SetDefault("qr.cache_enabled", true)
	v.SetDefault("qr.validate_rate_limit", 60)

	v.SetDefault("payroll.default_designation", "Assistant")
	v.SetDefault("payroll.default_salary_type", "Monthly")
	v.SetDefault("payroll.default_base_salary", 15000)

	v.SetDefault("jobs.salary_recompute_interval", "6h")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.release", "")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("LIBRARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// no file: defaults and env only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret must be set")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be within 1-65535")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("config: attendance.timezone %q: %w", c.Attendance.Timezone, err)
	}
	switch c.QR.DurationPolicy {
	case QRPolicyEndOfDay, QRPolicyFixed:
	default:
		return fmt.Errorf("config: qr.duration_policy must be %q or %q", QRPolicyEndOfDay, QRPolicyFixed)
	}
	if c.QR.DefaultTTL <= 0 {
		return fmt.Errorf("config: qr.default_ttl must be positive")
	}
	if c.QR.MaxTTL < c.QR.DefaultTTL {
		return fmt.Errorf("config: qr.max_ttl must not be shorter than qr.default_ttl")
	}
	switch c.Payroll.DefaultSalaryType {
	case "Monthly", "Daily":
	default:
		return fmt.Errorf("config: payroll.default_salary_type must be Monthly or Daily")
	}
	if c.Payroll.DefaultBaseSalary < 0 {
		return fmt.Errorf("config: payroll.default_base_salary must not be negative")
	}
	return nil
}
