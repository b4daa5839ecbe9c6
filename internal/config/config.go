package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"eatprofile/internal/mailer"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, read from the environment
type Config struct {
	HTTPPort          string
	MongoURI          string
	MongoDatabase     string
	RedisAddr         string
	QuestionnairePath string // empty means the embedded default table
	ResultTTL         time.Duration

	AdminUsername string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration

	SMTP mailer.SMTPConfig

	CORSAllowedOrigins string
	CORSAllowedMethods string
	CORSAllowedHeaders string
}

// Load reads .env (if present) and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	resultTTL, err := getDuration("RESULT_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getDuration("ADMIN_TOKEN_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	smtpPort, err := getInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	smtpSSL, err := getBool("SMTP_SSL", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:          getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "eatprofile"),
		RedisAddr:         redisAddr(getEnv("REDIS_URI", "localhost:6379")),
		QuestionnairePath: os.Getenv("QUESTIONNAIRE_PATH"),
		ResultTTL:         resultTTL,

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTL:      tokenTTL,

		SMTP: mailer.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			SSL:      smtpSSL,
		},

		CORSAllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),
		CORSAllowedMethods: os.Getenv("CORS_ALLOWED_METHODS"),
		CORSAllowedHeaders: os.Getenv("CORS_ALLOWED_HEADERS"),
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

// redisAddr strips a redis:// prefix
func redisAddr(addr string) string {
	if len(addr) > 8 && addr[:8] == "redis://" {
		return addr[8:]
	}
	return addr
}
