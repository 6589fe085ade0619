package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// devSessionSecret is only accepted when server.env is "dev".
const devSessionSecret = "salon-booking-dev-secret"

// maxAdminPasswordBytes is the longest password bcrypt accepts
const maxAdminPasswordBytes = 72

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	AWS      AWSConfig      `yaml:"aws"`
	Session  SessionConfig  `yaml:"session"`
	Admin    AdminConfig    `yaml:"admin"`
	Upload   UploadConfig   `yaml:"upload"`
	Log      LogConfig      `yaml:"log"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port" env:"PORT" env-default:"8080"`
	Host string `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"prod"`
}

// DatabaseConfig holds database configuration.
// Driver is one of "postgres", "sqlite" or "memory".
type DatabaseConfig struct {
	Driver     string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"postgres"`
	URL        string `yaml:"url" env:"DATABASE_URL"`
	Host       string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port       int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User       string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password   string `yaml:"password" env:"DB_PASSWORD"`
	DBName     string `yaml:"dbname" env:"DB_NAME" env-default:"salon"`
	SSLMode    string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"salon.db"`
}

// StorageConfig selects where photo attachments are written.
// Driver is one of "local" or "s3".
type StorageConfig struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"local"`
	UploadDir  string `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"uploads"`
	PublicPath string `yaml:"public_path" env:"UPLOAD_PUBLIC_PATH" env-default:"/uploads"`
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region        string `yaml:"region" env:"AWS_REGION" env-default:"us-east-1"`
	S3Bucket      string `yaml:"s3_bucket" env:"AWS_S3_BUCKET"`
	AccessKey     string `yaml:"access_key" env:"AWS_ACCESS_KEY_ID"`
	SecretKey     string `yaml:"secret_key" env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint      string `yaml:"endpoint" env:"AWS_S3_ENDPOINT"`
	PublicBaseURL string `yaml:"public_base_url" env:"AWS_S3_PUBLIC_BASE_URL"`
}

// SessionConfig holds admin session configuration
type SessionConfig struct {
	Secret        string        `yaml:"secret" env:"SESSION_SECRET"`
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	CookieName    string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"salon_session"`
	Secure        bool          `yaml:"secure" env:"SESSION_COOKIE_SECURE"`
	SweepInterval string        `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL" env-default:"@every 10m"`
}

// AdminConfig holds the single admin credential pair.
// PasswordHash (bcrypt) takes precedence over Password when both are set.
// A plaintext Password is hashed at startup and may be at most 72 bytes.
type AdminConfig struct {
	Username     string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	Password     string `yaml:"password" env:"ADMIN_PASSWORD" env-default:"1234"`
	PasswordHash string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxPhotoBytes int64 `yaml:"max_photo_bytes" env:"UPLOAD_MAX_PHOTO_BYTES" env-default:"5242880"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// TracingConfig toggles AWS X-Ray request segments
type TracingConfig struct {
	Enabled bool   `yaml:"enabled" env:"TRACING_ENABLED"`
	Name    string `yaml:"name" env:"TRACING_NAME" env-default:"salon-booking-backend"`
}

// Load reads configuration from a YAML file, then applies a .env file and
// environment variables on top. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		if c.Server.Env != "dev" {
			return fmt.Errorf("session secret is required (set SESSION_SECRET)")
		}
		c.Session.Secret = devSessionSecret
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Admin.PasswordHash == "" && len(c.Admin.Password) > maxAdminPasswordBytes {
		return fmt.Errorf("admin password is %d bytes, at most %d are allowed (set admin.password_hash instead)",
			len(c.Admin.Password), maxAdminPasswordBytes)
	}
	if c.Upload.MaxPhotoBytes <= 0 {
		return fmt.Errorf("upload max_photo_bytes must be positive")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.AWS.S3Bucket == "" {
			return fmt.Errorf("aws s3_bucket is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
