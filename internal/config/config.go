package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env        string
	ServerPort string
	LogLevel   string

	DBUrl string

	JWTSecret           string
	JWTExpiresIn        time.Duration
	JWTCookieExpireDays int
	BcryptCost          int

	PaymentAccessToken   string
	PaymentCurrency      string
	PaymentWebhookSecret string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateLimitMax    int
	RateLimitWindow time.Duration

	AMQPUrl string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicURL       string
	UploadDir         string

	EmailFrom        string
	ResendAPIKey     string
	CheckEmailDomain bool

	CORSOrigins []string
}

// Load reads config.env (when present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load("config.env")

	return &Config{
		Env:        getEnv("APP_ENV", EnvDevelopment),
		ServerPort: getEnv("PORT", "3000"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DBUrl: databaseURL(
			getEnv("DATABASE_URL", "postgres://natours:<PASSWORD>@localhost:5432/natours?sslmode=disable"),
			getEnv("DATABASE_PASSWORD", "natours"),
		),

		JWTSecret:           getEnv("JWT_SECRET", "changeme"),
		JWTExpiresIn:        getEnvDuration("JWT_EXPIRES_IN", 90*24*time.Hour),
		JWTCookieExpireDays: getEnvInt("JWT_COOKIE_EXPIRES_IN", 90),
		BcryptCost:          getEnvInt("BCRYPT_COST", 12),

		PaymentAccessToken:   getEnv("PAYMENT_ACCESS_TOKEN", ""),
		PaymentCurrency:      getEnv("PAYMENT_CURRENCY", "BRL"),
		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Hour),

		AMQPUrl: getEnv("AMQP_URL", ""),

		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		UploadDir:         getEnv("UPLOAD_DIR", "public/img"),

		EmailFrom:        getEnv("EMAIL_FROM", "Natours <hello@natours.dev>"),
		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		CheckEmailDomain: getEnvBool("CHECK_EMAIL_DOMAIN", false),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// CookieMaxAge is the jwt cookie lifetime in seconds.
func (c *Config) CookieMaxAge() int {
	return c.JWTCookieExpireDays * 24 * 60 * 60
}

func databaseURL(raw, password string) string {
	return strings.Replace(raw, "<PASSWORD>", password, 1)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// ParseDuration accepts Go durations plus a day suffix ("90d").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
