package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
	DriverMemory   = "memory"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Mongo       MongoConfig
	JWT         JWTConfig
	Token       TokenConfig
	Email       EmailConfig
	GoogleOAuth GoogleOAuthConfig
	CORS        CORSConfig
	Log         LogConfig
	Telemetry   TelemetryConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// StorageConfig selects the backing document store
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"postgres"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL           string        `env:"DATABASE_URL"`
	Host          string        `env:"DB_HOST" env-default:"localhost"`
	Port          string        `env:"DB_PORT" env-default:"5432"`
	User          string        `env:"DB_USER" env-default:"postgres"`
	Password      string        `env:"DB_PASSWORD"`
	Name          string        `env:"DB_NAME" env-default:"uptask"`
	SSLMode       string        `env:"DB_SSLMODE" env-default:"disable"`
	MaxConns      int32         `env:"DB_MAX_CONNS" env-default:"5"`
	MinConns      int32         `env:"DB_MIN_CONNS" env-default:"0"`
	MaxLifetime   time.Duration `env:"DB_MAX_LIFETIME" env-default:"1h"`
	ConnTimeout   time.Duration `env:"DB_CONN_TIMEOUT" env-default:"10s"`
	QueryTimeout  time.Duration `env:"DB_QUERY_TIMEOUT" env-default:"30s"`
	RunMigrations bool          `env:"DB_RUN_MIGRATIONS" env-default:"true"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI            string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" env-default:"uptask"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string        `env:"JWT_SECRET" env-default:"your-secret-key-change-in-production"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TTL" env-default:"168h"`
	Issuer         string        `env:"JWT_ISSUER" env-default:"uptask"`
}

// TokenConfig holds settings for confirmation and reset tokens
type TokenConfig struct {
	TTL time.Duration `env:"TOKEN_TTL" env-default:"10m"`
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	SMTPHost       string        `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	SMTPPort       string        `env:"SMTP_PORT" env-default:"587"`
	SMTPUsername   string        `env:"SMTP_USERNAME"`
	SMTPPassword   string        `env:"SMTP_PASSWORD"`
	FromEmail      string        `env:"EMAIL_FROM"`
	FromName       string        `env:"EMAIL_FROM_NAME" env-default:"UpTask"`
	FrontendURL    string        `env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	SendTimeout    time.Duration `env:"SMTP_SEND_TIMEOUT" env-default:"10s"`
	BreakerTimeout time.Duration `env:"SMTP_BREAKER_TIMEOUT" env-default:"30s"`
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL" env-default:"http://localhost:8080/api/auth/google/callback"`
	FrontendURL  string `env:"GOOGLE_FRONTEND_CALLBACK" env-default:"http://localhost:5173/auth/callback"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" env-default:"*"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
}

// CredentialsAllowed reports whether credentialed requests may be accepted.
// It is always false when any origin is allowed.
func (c CORSConfig) CredentialsAllowed() bool {
	if !c.AllowCredentials {
		return false
	}
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			return false
		}
	}
	return true
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
	Env   string `env:"APP_ENV" env-default:"dev"`
}

// TelemetryConfig holds OpenTelemetry exporter configuration
type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" env-default:"false"`
	Endpoint    string `env:"OTEL_EXPORTER_ENDPOINT" env-default:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" env-default:"uptask-backend"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file
	if err := godotenv.Load("../.env"); err != nil {
		// Try loading from current directory if not found in parent
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.URL == "" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD or DATABASE_URL is required for the postgres driver")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongodb driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Token.TTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.Log.Env == "prod" && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	if !c.IsEmailConfigured() {
		log.Printf("Warning: SMTP credentials not configured. Emails will be logged instead of sent.")
	}

	if !c.IsGoogleOAuthConfigured() {
		log.Println("Warning: Google OAuth credentials not configured. Google login will not work.")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// IsEmailConfigured checks if email service is properly configured
func (c *Config) IsEmailConfigured() bool {
	return c.Email.SMTPUsername != "" && c.Email.SMTPPassword != ""
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}
