package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	MediaProviderS3         = "s3"
	MediaProviderCloudinary = "cloudinary"

	MailProviderLog = "log"
	MailProviderSES = "ses"

	devJWTSecret = "dev-secret-change-me"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Environment string `mapstructure:"environment"`
	Port        string `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`

	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	ResetTokenTTL  time.Duration `mapstructure:"reset_token_ttl"`
	VerifyTokenTTL time.Duration `mapstructure:"verify_token_ttl"`

	MediaProvider    string `mapstructure:"media_provider"`
	AWSRegion        string `mapstructure:"aws_region"`
	AWSBucket        string `mapstructure:"aws_bucket"`
	CDNBaseURL       string `mapstructure:"cdn_base_url"`
	MediaPrefix      string `mapstructure:"media_prefix"`
	CloudinaryURL    string `mapstructure:"cloudinary_url"`
	CloudinaryFolder string `mapstructure:"cloudinary_folder"`
	MaxUploadBytes   int64  `mapstructure:"max_upload_bytes"`

	MailProvider  string `mapstructure:"mail_provider"`
	MailFrom      string `mapstructure:"mail_from"`
	MailFromName  string `mapstructure:"mail_from_name"`
	PublicBaseURL string `mapstructure:"public_base_url"`

	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	AuthRateLimit  int           `mapstructure:"auth_rate_limit"`
	AuthRateWindow time.Duration `mapstructure:"auth_rate_window"`

	RequiredServices string `mapstructure:"required_services"`

	OTLPEndpoint     string  `mapstructure:"otel_exporter_otlp_endpoint"`
	OTelServiceName  string  `mapstructure:"otel_service_name"`
	OTelSamplingRate float64 `mapstructure:"otel_sampling_rate"`

	CORSOrigins string `mapstructure:"cors_origins"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("port", "8000")
	v.SetDefault("database_url", "sqlite://./socialsimple.db")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("access_token_ttl", time.Hour)
	v.SetDefault("reset_token_ttl", time.Hour)
	v.SetDefault("verify_token_ttl", time.Hour)

	v.SetDefault("media_provider", MediaProviderS3)
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_bucket", "")
	v.SetDefault("cdn_base_url", "")
	v.SetDefault("media_prefix", "uploads")
	v.SetDefault("cloudinary_url", "")
	v.SetDefault("cloudinary_folder", "socialsimple")
	v.SetDefault("max_upload_bytes", int64(100<<20))

	v.SetDefault("mail_provider", MailProviderLog)
	v.SetDefault("mail_from", "no-reply@socialsimple.local")
	v.SetDefault("mail_from_name", "SocialSimple")
	v.SetDefault("public_base_url", "http://localhost:3000")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("auth_rate_limit", 20)
	v.SetDefault("auth_rate_window", time.Minute)

	v.SetDefault("required_services", "database")

	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_service_name", "socialsimple-backend")
	v.SetDefault("otel_sampling_rate", 1.0)

	v.SetDefault("cors_origins", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "server.log")
}

// Validate checks combinations that defaults cannot fix.
func (c *Config) Validate() error {
	switch c.MediaProvider {
	case MediaProviderS3, MediaProviderCloudinary:
	default:
		return fmt.Errorf("unknown MEDIA_PROVIDER %q (expected s3 or cloudinary)", c.MediaProvider)
	}
	switch c.MailProvider {
	case MailProviderLog, MailProviderSES:
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q (expected log or ses)", c.MailProvider)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET environment variable is required")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
