package initializers

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/bistro-api/utils"
)

type Config struct {
	Port     string
	LogLevel string

	DBDriver string
	DBURL    string

	JWTSecret string
	TokenTTL  time.Duration

	// CartMirror selects where carts are persisted: memory, file or redis.
	CartMirror string
	CartDir    string
	RedisAddr  string
	CartTTL    time.Duration

	NotifyWebhookURL string
	WebhookTimeout   time.Duration

	S3Bucket string

	KitchenEmail string
	Mail         utils.MailConfig

	SeedFile      string
	AdminEmail    string
	AdminPassword string

	CORSOrigins []string
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DBDriver:         getEnv("DB_DRIVER", "sqlite"),
		DBURL:            getEnv("DB_URL", "bistro.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         getDuration("TOKEN_TTL", 24*time.Hour),
		CartMirror:       getEnv("CART_MIRROR", "file"),
		CartDir:          getEnv("CART_DIR", "data/carts"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		CartTTL:          getDuration("CART_TTL", 0),
		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		WebhookTimeout:   getDuration("NOTIFY_WEBHOOK_TIMEOUT", 5*time.Second),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		KitchenEmail:     os.Getenv("KITCHEN_EMAIL"),
		Mail: utils.MailConfig{
			From:     os.Getenv("FROM_EMAIL"),
			Password: os.Getenv("FROM_EMAIL_PASSWORD"),
			SMTPHost: os.Getenv("FROM_EMAIL_SMTP"),
			Address:  os.Getenv("SMTP_ADDRESS"),
		},
		SeedFile:      os.Getenv("SEED_FILE"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET environment variable not set")
	}
	switch cfg.CartMirror {
	case "memory", "file", "redis":
	default:
		return cfg, errors.New("CART_MIRROR must be one of memory, file, redis")
	}
	return cfg, nil
}
