package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

// Config captures runtime configuration for the API service and the CLI.
// Values come from defaults, then an optional JSONC file, then environment
// variables.
type Config struct {
	HTTP      HTTPConfig      `json:"http"`
	Backend   BackendConfig   `json:"backend"`
	Orders    OrdersConfig    `json:"orders"`
	Database  DatabaseConfig  `json:"database"`
	Kafka     KafkaConfig     `json:"kafka"`
	Telemetry TelemetryConfig `json:"telemetry"`
	Service   ServiceConfig   `json:"service"`
	CLI       CLIConfig       `json:"cli"`
}

type HTTPConfig struct {
	Port          int    `json:"port"`
	MetricsPath   string `json:"metrics_path"`
	ShutdownGrace int    `json:"shutdown_grace_seconds"`
}

type BackendConfig struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Token          string `json:"token"`
	Phone          string `json:"phone"`
	Password       string `json:"password"`
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Snapshot store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type OrdersConfig struct {
	RefreshSeconds int    `json:"refresh_seconds"`
	RecentCount    int    `json:"recent_count"`
	Store          string `json:"store"`
	Timezone       string `json:"timezone"`
}

func (o OrdersConfig) RefreshInterval() time.Duration {
	return time.Duration(o.RefreshSeconds) * time.Second
}

// Location resolves Timezone. An empty value means the host's local zone.
func (o OrdersConfig) Location() (*time.Location, error) {
	if o.Timezone == "" || o.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", o.Timezone, err)
	}
	return loc, nil
}

type DatabaseConfig struct {
	URL         string `json:"url"`
	AutoMigrate bool   `json:"auto_migrate"`
	SQLitePath  string `json:"sqlite_path"`
}

type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

type TelemetryConfig struct {
	LogLevel      string  `json:"log_level"`
	OTelEndpoint  string  `json:"otlp_endpoint"`
	EnableTracing bool    `json:"enable_tracing"`
	EnableMetrics bool    `json:"enable_metrics"`
	SampleRate    float64 `json:"sample_rate"`
}

type ServiceConfig struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type CLIConfig struct {
	SessionPath string `json:"session_path"`
}

const (
	defaultHTTPPort       = 8081
	defaultMetricsPath    = "/metrics"
	defaultShutdownGrace  = 15
	defaultBackendURL     = "http://localhost:8080"
	defaultBackendTimeout = 15
	defaultRefreshSeconds = 10
	defaultRecentCount    = 5
	defaultAutoMigrate    = true
	defaultSQLitePath     = "restoadmin.db"
	defaultKafkaTopic     = "restoadmin.orders"
	defaultServiceName    = "restoadmin-api"
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultOTelSampleRate = 1.0
)

var ErrInvalid = errors.New("invalid configuration")

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:          defaultHTTPPort,
			MetricsPath:   defaultMetricsPath,
			ShutdownGrace: defaultShutdownGrace,
		},
		Backend: BackendConfig{
			URL:            defaultBackendURL,
			TimeoutSeconds: defaultBackendTimeout,
		},
		Orders: OrdersConfig{
			RefreshSeconds: defaultRefreshSeconds,
			RecentCount:    defaultRecentCount,
			Store:          StoreMemory,
		},
		Database: DatabaseConfig{
			AutoMigrate: defaultAutoMigrate,
			SQLitePath:  defaultSQLitePath,
		},
		Kafka: KafkaConfig{
			Topic: defaultKafkaTopic,
		},
		Telemetry: TelemetryConfig{
			LogLevel:      defaultLogLevel,
			EnableTracing: true,
			EnableMetrics: true,
			SampleRate:    defaultOTelSampleRate,
		},
		Service: ServiceConfig{
			Name:        defaultServiceName,
			Version:     defaultServiceVersion,
			Environment: defaultEnvironment,
		},
	}
}

// Load builds the configuration. path may be empty; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := loadHTTPConfig(&cfg.HTTP); err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}
	if err := loadBackendConfig(&cfg.Backend); err != nil {
		return nil, fmt.Errorf("loading backend config: %w", err)
	}
	if err := loadOrdersConfig(&cfg.Orders); err != nil {
		return nil, fmt.Errorf("loading orders config: %w", err)
	}
	loadDatabaseConfig(&cfg.Database, cfg.Orders.Store)
	loadKafkaConfig(&cfg.Kafka)
	if err := loadTelemetryConfig(&cfg.Telemetry); err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}
	loadServiceConfig(&cfg.Service)
	cfg.CLI.SessionPath = getEnvOrDefault("RESTOADMIN_SESSION", cfg.CLI.SessionPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays a JSONC file. Fields absent from the file keep their
// current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("config %s is not valid JSONC: %w", path, err)
	}
	if err := json.Unmarshal(standardized, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http port %d out of range", ErrInvalid, c.HTTP.Port)
	}
	if c.Orders.RefreshSeconds <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive", ErrInvalid)
	}
	if c.Orders.RecentCount <= 0 {
		return fmt.Errorf("%w: recent order count must be positive", ErrInvalid)
	}
	switch c.Orders.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: postgres store needs a database url", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown snapshot store %q", ErrInvalid, c.Orders.Store)
	}
	if _, err := c.Orders.Location(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func loadHTTPConfig(cfg *HTTPConfig) error {
	var err error
	if cfg.Port, err = getIntEnv("API_HTTP_PORT", cfg.Port); err != nil {
		return err
	}
	if cfg.ShutdownGrace, err = getIntEnv("API_SHUTDOWN_GRACE_SECONDS", cfg.ShutdownGrace); err != nil {
		return err
	}
	cfg.MetricsPath = getEnvOrDefault("API_METRICS_PATH", cfg.MetricsPath)
	return nil
}

func loadBackendConfig(cfg *BackendConfig) error {
	var err error
	cfg.URL = strings.TrimRight(getEnvOrDefault("BACKEND_URL", cfg.URL), "/")
	if cfg.TimeoutSeconds, err = getIntEnv("BACKEND_TIMEOUT_SECONDS", cfg.TimeoutSeconds); err != nil {
		return err
	}
	cfg.Token = getEnvOrDefault("BACKEND_TOKEN", cfg.Token)
	cfg.Phone = getEnvOrDefault("BACKEND_PHONE", cfg.Phone)
	cfg.Password = getEnvOrDefault("BACKEND_PASSWORD", cfg.Password)
	return nil
}

func loadOrdersConfig(cfg *OrdersConfig) error {
	var err error
	if cfg.RefreshSeconds, err = getIntEnv("ORDERS_REFRESH_SECONDS", cfg.RefreshSeconds); err != nil {
		return err
	}
	if cfg.RecentCount, err = getIntEnv("ORDERS_RECENT_COUNT", cfg.RecentCount); err != nil {
		return err
	}
	cfg.Store = strings.ToLower(getEnvOrDefault("SNAPSHOT_STORE", cfg.Store))
	cfg.Timezone = getEnvOrDefault("ORDERS_TIMEZONE", cfg.Timezone)
	return nil
}

func loadDatabaseConfig(cfg *DatabaseConfig, store string) {
	cfg.URL = getEnvOrDefault("DATABASE_URL", cfg.URL)
	if cfg.URL == "" && store == StorePostgres {
		cfg.URL = buildDatabaseURL()
	}
	cfg.AutoMigrate = getBoolEnv("AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.SQLitePath = getEnvOrDefault("SQLITE_PATH", cfg.SQLitePath)
}

func loadKafkaConfig(cfg *KafkaConfig) {
	if value, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		cfg.Brokers = splitList(value)
	}
	cfg.Topic = getEnvOrDefault("KAFKA_TOPIC", cfg.Topic)
}

func loadTelemetryConfig(cfg *TelemetryConfig) error {
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.OTelEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTelEndpoint)
	cfg.EnableTracing = getBoolEnv("OTEL_ENABLE_TRACING", cfg.EnableTracing)
	cfg.EnableMetrics = getBoolEnv("OTEL_ENABLE_METRICS", cfg.EnableMetrics)

	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		cfg.SampleRate = parsed
	}
	return nil
}

func loadServiceConfig(cfg *ServiceConfig) {
	cfg.Name = getEnvOrDefault("API_SERVICE_NAME", cfg.Name)
	cfg.Version = getEnvOrDefault("SERVICE_VERSION", cfg.Version)
	cfg.Environment = getEnvOrDefault("ENVIRONMENT", cfg.Environment)
}

func buildDatabaseURL() string {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "restoadmin")
	sslMode := getEnvOrDefault("DB_SSLMODE", "disable")

	maxConns := getEnvOrDefault("DB_MAX_CONNS", "10")
	minConns := getEnvOrDefault("DB_MIN_CONNS", "2")
	maxLifetime := getEnvOrDefault("DB_MAX_CONN_LIFETIME", "5m")

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%s&pool_min_conns=%s&pool_max_conn_lifetime=%s",
		user, password, host, port, dbName, sslMode, maxConns, minConns, maxLifetime,
	)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}
