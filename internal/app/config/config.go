package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	JWT         JWTConfig
	Redis       RedisConfig
	Stripe      StripeConfig
	Resend      ResendConfig
	MinIO       MinIOConfig
	AdminEmail  string // inbox for consultation and credential notices
}

type JWTConfig struct {
	Secret        string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type StripeConfig struct {
	SecretKey string
	BaseURL   string
	Currency  string
}

type ResendConfig struct {
	APIKey  string
	BaseURL string
	From    string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envJWTSecret    = "JWT_SECRET"
	envStripeKey    = "STRIPE_SECRET_KEY"
	envResendKey    = "RESEND_API_KEY"
	envAdminEmail   = "ADMIN_EMAIL"
	envMinIOHost    = "MINIO_ENDPOINT"
	envMinIOAccess  = "MINIO_ACCESS_KEY"
	envMinIOSecret  = "MINIO_SECRET_KEY"
	envMinIOBucket  = "MINIO_BUCKET"
	envMinIOUseSSL  = "MINIO_USE_SSL"
	envStripeAPIURL = "STRIPE_API_URL"
	envResendAPIURL = "RESEND_API_URL"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.WatchConfig()

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	cfg.JWT = JWTConfig{
		Secret:        os.Getenv(envJWTSecret),
		ExpiresIn:     time.Hour,
		SigningMethod: jwt.SigningMethodHS256,
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("%s must be set", envJWTSecret)
	}

	cfg.Redis.Host = os.Getenv(envRedisHost)
	cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
	if err != nil {
		return nil, fmt.Errorf("redis port must be int value: %w", err)
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	cfg.Stripe = StripeConfig{
		SecretKey: os.Getenv(envStripeKey),
		BaseURL:   getEnv(envStripeAPIURL, "https://api.stripe.com"),
		Currency:  "gbp",
	}
	cfg.Resend = ResendConfig{
		APIKey:  os.Getenv(envResendKey),
		BaseURL: getEnv(envResendAPIURL, "https://api.resend.com"),
		From:    "ProcessPilot <onboarding@resend.dev>",
	}
	cfg.AdminEmail = os.Getenv(envAdminEmail)

	cfg.MinIO = MinIOConfig{
		Endpoint:  os.Getenv(envMinIOHost),
		AccessKey: os.Getenv(envMinIOAccess),
		SecretKey: os.Getenv(envMinIOSecret),
		Bucket:    getEnv(envMinIOBucket, "request-attachments"),
		UseSSL:    os.Getenv(envMinIOUseSSL) == "true",
	}

	log.Info("config parsed")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
