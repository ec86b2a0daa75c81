package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_PORT"` specify the environment variable name.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"` // development, staging, production
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`      // debug, info, warn, error
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Postgres   PostgresConfig
	Media      MediaConfig
	Auth       AuthConfig
	API        APIConfig
	Metrics    MetricsConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port            string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead     time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite    time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle     time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
	MaxUploadMB     int64         `envconfig:"HTTP_SERVER_MAX_UPLOAD_MB" default:"32"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// GrpcServerConfig holds the port of the gRPC health server.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
}

// PostgresConfig holds PostgreSQL database connection details.
type PostgresConfig struct {
	Host         string        `envconfig:"POSTGRES_HOST" required:"true"`
	Port         string        `envconfig:"POSTGRES_PORT" default:"5432"`
	User         string        `envconfig:"POSTGRES_USER" required:"true"`
	Password     string        `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName       string        `envconfig:"POSTGRES_DBNAME" required:"true"`
	SSLMode      string        `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxOpenConns int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"25"`
	ConnMaxIdle  time.Duration `envconfig:"POSTGRES_CONN_MAX_IDLE_TIME" default:"15m"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// MediaConfig selects where uploaded assets are stored.
type MediaConfig struct {
	Driver string `envconfig:"MEDIA_DRIVER" default:"local"` // local or s3
	Root   string `envconfig:"MEDIA_ROOT" default:"media"`
	URL    string `envconfig:"MEDIA_URL" default:"/media/"`
	S3     S3Config
}

// S3Config is used when MEDIA_DRIVER=s3. Leave the endpoint empty for AWS.
type S3Config struct {
	Bucket    string `envconfig:"S3_BUCKET"`
	Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	AccessKey string `envconfig:"S3_ACCESS_KEY"`
	SecretKey string `envconfig:"S3_SECRET_KEY"`
	Endpoint  string `envconfig:"S3_ENDPOINT"`
	PublicURL string `envconfig:"S3_PUBLIC_URL"`
	Prefix    string `envconfig:"S3_PREFIX"`
}

// AuthConfig controls who may write.
type AuthConfig struct {
	JWTSecret string        `envconfig:"AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
	// AllowAnonymousWrites lets any client write. Local development only.
	AllowAnonymousWrites bool `envconfig:"AUTH_ALLOW_ANONYMOUS_WRITES" default:"false"`
}

// APIConfig holds list pagination settings.
type APIConfig struct {
	PageSize int `envconfig:"API_PAGE_SIZE" default:"20"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load initializes the configuration from environment variables.
// It should be called once during application startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	slog.Info("configuration loaded", "app_env", cfg.AppEnv, "media_driver", cfg.Media.Driver)
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Media.Driver) {
	case "local":
	case "s3":
		if c.Media.S3.Bucket == "" {
			return fmt.Errorf("invalid configuration: S3_BUCKET is required when MEDIA_DRIVER=s3")
		}
	default:
		return fmt.Errorf("invalid configuration: MEDIA_DRIVER must be local or s3, got %q", c.Media.Driver)
	}
	if c.Auth.JWTSecret == "" && !c.Auth.AllowAnonymousWrites {
		return fmt.Errorf("invalid configuration: AUTH_JWT_SECRET is required unless AUTH_ALLOW_ANONYMOUS_WRITES=true")
	}
	if c.API.PageSize < 1 || c.API.PageSize > 100 {
		return fmt.Errorf("invalid configuration: API_PAGE_SIZE must be between 1 and 100, got %d", c.API.PageSize)
	}
	return nil
}
