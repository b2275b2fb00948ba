package config

import (
	"pizzeria_server/structs"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment without caching it.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "Pizzeria_no_env"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			ServerURL:      getEnvAsString("SERVER_URL", "http://localhost:8082"),
			FrontendURL:    getEnvAsString("FRONTEND_URL", "http://localhost:3000"),
			CookieDomain:   getEnvAsString("COOKIE_DOMAIN", ""),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-CSRF-Token"}),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "X-RateLimit-Remaining"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Database: &structs.DatabaseConfig{
			Host:         getEnvAsString("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnvAsString("DB_USER", "postgres"),
			Password:     getEnvAsString("DB_PASSWORD", "password"),
			Name:         getEnvAsString("DB_NAME", "pizzeria_db"),
			SSLMode:      getEnvAsBool("DB_SSL", false),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			SlowQuery:    getEnvAsTimeDuration("DB_SLOW_QUERY", time.Second),
		},
		Cache: &structs.CacheConfig{
			Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
			Username:        getEnvAsString("REDIS_USERNAME", ""),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
			PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			MenuTTL:         getEnvAsTimeDuration("CACHE_MENU_TTL", 5*time.Minute),
			CartTTL:         getEnvAsTimeDuration("CACHE_CART_TTL", 7*24*time.Hour),
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
			AccessTokenExpiry:  getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshTokenSecret: getEnvAsString("AUTH_REFRESH_TOKEN_SECRET", "default_refresh_secret"),
			RefreshTokenExpiry: getEnvAsTimeDuration("AUTH_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			BlacklistCacheTTL:  getEnvAsTimeDuration("AUTH_BLACKLIST_TTL", 15*time.Minute),
			CacheCustomerTTL:   getEnvAsTimeDuration("AUTH_CACHE_CUSTOMER_TTL", 10*time.Minute),
		},
		Email: &structs.EmailConfig{
			ApiKey: getEnvAsString("RESEND_API_KEY", ""),
			From:   getEnvAsString("EMAIL_FROM", "Pizzeria <orders@pizzeria.local>"),
		},
		Kafka: &structs.KafkaConfig{
			Brokers:      getEnvAsSlice("KAFKA_BROKERS", nil),
			OrderTopic:   getEnvAsString("KAFKA_ORDER_TOPIC", "pizzeria.orders"),
			WriteTimeout: getEnvAsTimeDuration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
		},
		Order: &structs.OrderConfig{
			BasePrice:         getEnvAsDecimal("PIZZA_BASE_PRICE", decimal.RequireFromString("5.00")),
			DrinkCategory:     getEnvAsString("ORDER_DRINK_CATEGORY", "drink"),
			LoyaltyPercent:    getEnvAsDecimal("ORDER_LOYALTY_PERCENT", decimal.NewFromInt(10)),
			LoyaltyEvery:      getEnvAsInt("ORDER_LOYALTY_EVERY", 10),
			DeliveryCooldown:  getEnvAsTimeDuration("DELIVERY_COOLDOWN", 30*time.Minute),
			CancelWindow:      getEnvAsTimeDuration("ORDER_CANCEL_WINDOW", 5*time.Minute),
			OnUnavailableItem: getEnvAsPolicy("ORDER_ON_UNAVAILABLE_ITEM", structs.UnavailableSkip),
			TrackingURL:       getEnvAsString("ORDER_TRACKING_URL", "http://localhost:3000/orders/%s"),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			GeneralLimit:   getEnvAsInt("RATE_LIMIT_GENERAL", 120),
			GeneralWindow:  getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
			AuthLimit:      getEnvAsInt("RATE_LIMIT_AUTH", 10),
			AuthWindow:     getEnvAsTimeDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			CheckoutLimit:  getEnvAsInt("RATE_LIMIT_CHECKOUT", 10),
			CheckoutWindow: getEnvAsTimeDuration("RATE_LIMIT_CHECKOUT_WINDOW", time.Minute),
			StaffLimit:     getEnvAsInt("RATE_LIMIT_STAFF", 60),
			StaffWindow:    getEnvAsTimeDuration("RATE_LIMIT_STAFF_WINDOW", time.Minute),
		},
	}
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
