// Package config loads the service configuration from environment variables.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config centralizes the service configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"5000"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"168h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`

	DB DBConfig

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	CORSEnabled     bool          `env:"CORS_ENABLED" envDefault:"true"`

	Media MediaConfig

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	IOTimeout       time.Duration `env:"IO_TIMEOUT" envDefault:"15s"`
}

// DBConfig holds the credential store connection settings.
type DBConfig struct {
	Driver         string        `env:"DB_DRIVER" envDefault:"postgres"`
	URL            string        `env:"DATABASE_URL"`
	Host           string        `env:"DB_HOST" envDefault:"localhost"`
	Port           string        `env:"DB_PORT" envDefault:"5432"`
	User           string        `env:"DB_USER"`
	Password       string        `env:"DB_PASSWORD"`
	Name           string        `env:"DB_NAME"`
	SSLMode        string        `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"./wth.db"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"false"`
}

// MediaConfig holds the S3-compatible media store settings.
type MediaConfig struct {
	Bucket        string `env:"S3_BUCKET"`
	Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint      string `env:"S3_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	MaxAvatarSize int64  `env:"AVATAR_MAX_BYTES" envDefault:"5242880"`
}

// ErrInvalidConfig is returned when parsed values are out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// LoadDotEnv loads a .env file into the process environment when one exists.
// A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.JWTExpiration <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("JWT_EXPIRATION must be positive"))
	case c.DB.Driver != "postgres" && c.DB.Driver != "sqlite":
		return errors.Join(ErrInvalidConfig, errors.New("DB_DRIVER must be postgres or sqlite"))
	case c.RateLimitMax <= 0 || c.RateLimitWindow <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("rate limit must be positive"))
	case c.Media.MaxAvatarSize <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("AVATAR_MAX_BYTES must be positive"))
	}
	return nil
}
