// Package config loads server settings from config.toml and STORE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STORE_DATABASE_PASSWORD
const EnvPrefix = "STORE"

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Tracking  TrackingConfig  `mapstructure:"tracking"`
	Realtime  RealtimeConfig  `mapstructure:"realtime"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

func (a AppConfig) IsProduction() bool { return a.Env == "production" }

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // postgres or sqlite
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	// Pool limits; the lifetimes are minutes.
	MaxOpenConns    int `mapstructure:"max_open_conns"`
	MaxIdleConns    int `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int `mapstructure:"conn_max_idle_time"`
}

// DSN is the postgres URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig locates the Redis that backs checkout idempotency keys.
// Disabled means keys are kept in process memory.
type RedisConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

func (r *RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// KafkaConfig controls mirroring notifications and tracking changes to Kafka
type KafkaConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Brokers           []string      `mapstructure:"brokers"`
	NotificationTopic string        `mapstructure:"notification_topic"`
	TrackingTopic     string        `mapstructure:"tracking_topic"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
	// SwaggerEnabled serves the OpenAPI UI at /swagger. Unset means on
	// everywhere but production.
	SwaggerEnabled bool `mapstructure:"swagger_enabled"`
	// CheckoutRateLimit caps order placements per client IP in each
	// CheckoutRateWindow. Zero disables the limit.
	CheckoutRateLimit  int           `mapstructure:"checkout_rate_limit"`
	CheckoutRateWindow time.Duration `mapstructure:"checkout_rate_window"`
}

// TrackingConfig drives the background order progression
type TrackingConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

// RealtimeConfig sizes the push stream
type RealtimeConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	BufferSize        int           `mapstructure:"buffer_size"`
	MaxClients        int           `mapstructure:"max_clients"`
}

// TelemetryConfig covers OTLP export of traces, metrics and logs
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"` // host:port of the OTLP gRPC receiver
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"` // plaintext gRPC, development only
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	LogExportEnabled  bool          `mapstructure:"log_export_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
}

// ProfilingConfig points continuous profiling at a Pyroscope server
type ProfilingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServerAddress string `mapstructure:"server_address"`
	SpanProfiles  bool   `mapstructure:"span_profiles"`
}

// defaults lists every key Load understands. A key must appear here for an
// environment variable alone to set it.
var defaults = map[string]any{
	"app.name": "storefront",
	"app.env":  "development",
	"app.port": "8080",

	"database.driver":             "postgres",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "storefront",
	"database.sslmode":            "disable",
	"database.sqlite_path":        "storefront.db",
	"database.auto_migrate":       true,
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":         false,
	"redis.host":            "localhost",
	"redis.port":            6379,
	"redis.password":        "",
	"redis.db":              0,
	"redis.idempotency_ttl": 24 * time.Hour,

	"kafka.enabled":            false,
	"kafka.brokers":            []string{},
	"kafka.notification_topic": "storefront.notifications",
	"kafka.tracking_topic":     "storefront.order-tracking",
	"kafka.write_timeout":      5 * time.Second,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	// write_timeout bounds regular handlers only; the stream handler clears
	// its own deadline.
	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      15 * time.Second,
	"http.idle_timeout":       60 * time.Second,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      1 << 20,
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PATCH", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "X-Request-ID", "Idempotency-Key", "Cache-Control"},
	"http.trusted_proxies":    []string{},
	"http.checkout_rate_limit":  30,
	"http.checkout_rate_window": time.Minute,

	"tracking.enabled":    true,
	"tracking.interval":   30 * time.Second,
	"tracking.batch_size": 20,

	"realtime.heartbeat_interval": 25 * time.Second,
	"realtime.buffer_size":        100,
	"realtime.max_clients":        1000,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "",
	"telemetry.insecure":                false,
	"telemetry.metrics_enabled":         false,
	"telemetry.metrics_interval":        time.Minute,
	"telemetry.log_export_enabled":      false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,

	"profiling.enabled":        false,
	"profiling.server_address": "http://localhost:4040",
	"profiling.span_profiles":  false,
}

// Load reads ./config.toml or /app/config.toml when present, then applies
// STORE_* environment overrides, e.g. STORE_TRACKING_INTERVAL=5s.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// No default: whether it was set at all decides the fallback.
	_ = v.BindEnv("http.swagger_enabled")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if !v.IsSet("http.swagger_enabled") {
		cfg.HTTP.SwaggerEnabled = !cfg.App.IsProduction()
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	db := c.Database
	switch {
	case db.Driver != "postgres" && db.Driver != "sqlite":
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", db.Driver)
	case db.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case db.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case db.MaxIdleConns > db.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			db.MaxIdleConns, db.MaxOpenConns)
	case c.HTTP.CheckoutRateLimit < 0:
		return errors.New("http.checkout_rate_limit cannot be negative")
	case c.HTTP.CheckoutRateLimit > 0 && c.HTTP.CheckoutRateWindow <= 0:
		return errors.New("http.checkout_rate_window must be positive when the checkout rate limit is on")
	case c.Tracking.Interval < 0, c.Tracking.Enabled && c.Tracking.Interval == 0:
		return errors.New("tracking.interval must be positive")
	case c.Tracking.BatchSize < 0:
		return errors.New("tracking.batch_size cannot be negative")
	case c.Realtime.BufferSize < 0 || c.Realtime.MaxClients < 0:
		return errors.New("realtime.buffer_size and realtime.max_clients cannot be negative")
	case c.Kafka.Enabled && len(c.Kafka.Brokers) == 0:
		return errors.New("kafka.brokers is required when kafka.enabled is true")
	case c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1:
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.IsProduction() {
		return c.validateProduction()
	}
	return nil
}

func (c *Config) validateProduction() error {
	switch {
	case c.Database.Driver == "sqlite":
		return errors.New("database.driver cannot be sqlite in production")
	case c.Database.Password == "":
		return errors.New("database.password is required in production")
	case c.Database.SSLMode == "disable":
		return errors.New("database.sslmode cannot be 'disable' in production")
	case slices.Contains(c.HTTP.CORSAllowOrigins, "*"):
		return errors.New("http.cors_allow_origins cannot be '*' in production")
	case c.Telemetry.DBLogFullSQL:
		return errors.New("telemetry.db_log_full_sql must be false in production; statements can carry customer data")
	}
	return nil
}
