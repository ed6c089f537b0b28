package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	StoreDriver   string
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	RunMigrations bool

	RedisURL        string
	RedisAddr       string
	RedisPassword   string
	ProductCacheTTL time.Duration

	JWTSecret string
	JWTExpiry time.Duration

	CheckoutMode      string
	StoreTimeout      time.Duration
	CheckoutTimeout   time.Duration
	LowStockThreshold int

	OriginURL         string
	AuthRatePerMinute int
	AuthRateBurst     int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

var AppConfig *Config

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	AppConfig = &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("APP_PORT", getEnv("PORT", "8082")),

		StoreDriver:   getEnv("STORE_DRIVER", "postgres"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "inventory_billing"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getEnvInt("DB_MAX_CONNS", 25)),
		DBMinConns:    int32(getEnvInt("DB_MIN_CONNS", 5)),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),

		RedisURL:        os.Getenv("REDIS_URL"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ProductCacheTTL: getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute),

		JWTSecret: getEnv("JWT_SECRET", "secret"),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		CheckoutMode:      getEnv("CHECKOUT_MODE", "atomic"),
		StoreTimeout:      getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		CheckoutTimeout:   getEnvDuration("CHECKOUT_TIMEOUT", 15*time.Second),
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),

		OriginURL:         os.Getenv("ORIGIN_URL"),
		AuthRatePerMinute: getEnvInt("AUTH_RATE_PER_MINUTE", 30),
		AuthRateBurst:     getEnvInt("AUTH_RATE_BURST", 10),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),
	}

	if AppConfig.LowStockThreshold < 1 {
		AppConfig.LowStockThreshold = 5
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Store driver: %s, checkout mode: %s", AppConfig.StoreDriver, AppConfig.CheckoutMode)

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
