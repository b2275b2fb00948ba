package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	Auth      *AuthConfig
	Email     *EmailConfig
	Kafka     *KafkaConfig
	Order     *OrderConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // Pizzeria
	Environment    string        // development, production
	Port           string        // :8082
	ServerURL      string        // public base URL of this API
	FrontendURL    string        // used in emails and tracking QR codes
	CookieDomain   string        // empty outside production
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      bool
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SlowQuery    time.Duration
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	MenuTTL         time.Duration
	CartTTL         time.Duration
}

type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	BlacklistCacheTTL  time.Duration
	CacheCustomerTTL   time.Duration
}

type EmailConfig struct {
	ApiKey string
	From   string
}

type KafkaConfig struct {
	Brokers      []string
	OrderTopic   string
	WriteTimeout time.Duration
}

// UnavailablePolicy controls what happens at checkout with a cart line whose
// item went inactive after it was added.
type UnavailablePolicy string

const (
	UnavailableSkip   UnavailablePolicy = "skip"
	UnavailableReject UnavailablePolicy = "reject"
)

type OrderConfig struct {
	BasePrice         decimal.Decimal
	DrinkCategory     string
	LoyaltyPercent    decimal.Decimal
	LoyaltyEvery      int
	DeliveryCooldown  time.Duration
	CancelWindow      time.Duration
	OnUnavailableItem UnavailablePolicy
	TrackingURL       string // fmt pattern taking the order id
}

type RateLimitConfig struct {
	Enabled        bool
	GeneralLimit   int
	GeneralWindow  time.Duration
	AuthLimit      int
	AuthWindow     time.Duration
	CheckoutLimit  int
	CheckoutWindow time.Duration
	StaffLimit     int
	StaffWindow    time.Duration
}
