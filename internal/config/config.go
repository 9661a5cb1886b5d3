package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const passwordPlaceholder = "<PASSWORD>"

type Config struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	ServerPort string `envconfig:"PORT" default:"8000"`

	// Comma separated list of origins allowed to call the API with credentials.
	ClientOrigins []string `envconfig:"CLIENT_ORIGIN"`

	Database         string `envconfig:"DATABASE" default:"host=localhost user=stay password=<PASSWORD> dbname=stay port=5432 sslmode=disable"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`

	JWTSecret           string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiresIn        time.Duration `envconfig:"JWT_EXPIRES_IN" default:"2160h"`
	JWTCookieExpiresDay int           `envconfig:"JWT_COOKIE_EXPIRES_IN" default:"90"`

	RedisURL string `envconfig:"REDIS_URL"`

	Storage Storage

	ImageFormat      string `envconfig:"IMAGE_FORMAT" default:"jpeg"`
	MediaConcurrency int    `envconfig:"MEDIA_CONCURRENCY" default:"4"`
	MaxBodyBytes     int64  `envconfig:"MAX_BODY_BYTES" default:"52428800"`

	ErrorDetail      bool `envconfig:"ERROR_DETAIL" default:"true"`
	CheckEmailDomain bool `envconfig:"CHECK_EMAIL_DOMAIN" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

type Storage struct {
	Driver     string        `envconfig:"STORAGE_DRIVER" default:"local"`
	Bucket     string        `envconfig:"STORAGE_BUCKET"`
	Region     string        `envconfig:"STORAGE_REGION" default:"us-east-1"`
	Endpoint   string        `envconfig:"STORAGE_ENDPOINT"`
	AccessKey  string        `envconfig:"STORAGE_ACCESS_KEY"`
	SecretKey  string        `envconfig:"STORAGE_SECRET_KEY"`
	PublicURL  string        `envconfig:"STORAGE_PUBLIC_URL"`
	URLTTL     time.Duration `envconfig:"STORAGE_URL_TTL" default:"168h"`
	PathStyle  bool          `envconfig:"STORAGE_PATH_STYLE" default:"false"`
	UploadDir  string        `envconfig:"UPLOAD_DIR" default:"uploads"`
	UploadPath string        `envconfig:"UPLOAD_URL_PATH" default:"/uploads"`
}

// Load reads config.env and .env when they exist, then the process environment.
// Variables already set in the environment win over the files.
func Load() (*Config, error) {
	for _, file := range []string{"config.env", ".env"} {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("STORAGE_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.ImageFormat {
	case "jpeg", "webp":
	default:
		return fmt.Errorf("unknown IMAGE_FORMAT %q", c.ImageFormat)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	if c.IsProduction() && len(c.ClientOrigins) == 0 {
		return errors.New("CLIENT_ORIGIN is required in production")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DSN substitutes DATABASE_PASSWORD into the DATABASE placeholder.
func (c *Config) DSN() string {
	return strings.ReplaceAll(c.Database, passwordPlaceholder, c.DatabasePassword)
}

func (c *Config) CookieMaxAge() int {
	return c.JWTCookieExpiresDay * 24 * 60 * 60
}
