package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	LogLevel    string
	CORSOrigins []string

	AWSRegion         string
	S3Bucket          string
	CloudFrontURL     string
	SESSender         string
	SNSPlatformARN    string
	ModerationEnabled bool

	RedisAddr         string
	FirebaseProjectID string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      time.Duration(getenvInt("JWT_TTL_HOURS", 72)) * time.Hour,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		AWSRegion:         getenv("AWS_REGION", "ap-south-1"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		CloudFrontURL:     strings.TrimSuffix(os.Getenv("CLOUDFRONT_URL"), "/"),
		SESSender:         os.Getenv("SES_EMAIL"),
		SNSPlatformARN:    os.Getenv("SNS_FCM_ARN"),
		ModerationEnabled: os.Getenv("REKOGNITION_MODERATION") == "true",

		RedisAddr:         os.Getenv("REDIS_ADDR"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
	}

	if cfg.DatabaseURL == "" && os.Getenv("DB_HOST") != "" {
		cfg.DatabaseURL = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			getenv("DB_PORT", "5432"),
		)
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL or DB_HOST is required")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
