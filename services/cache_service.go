package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

const menuCacheKey = "menu:active"

// CacheService provides Redis caching functionality with connection pooling and retry logic
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return NewCacheServiceWithClient(logger, cfg, getRedisClient(cfg.Cache))
}

func NewCacheServiceWithClient(logger *gecho.Logger, cfg *structs.Config, client *redis.Client) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: client,
	}
}

// getRedisClient returns a singleton Redis client with proper connection pooling
func getRedisClient(cfg *structs.CacheConfig) *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,

			// Connection pool settings
			PoolSize:        cfg.PoolSize,
			MinIdleConns:    cfg.MinIdleConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			PoolTimeout:     cfg.PoolTimeout,
			ConnMaxIdleTime: cfg.IdleTimeout,

			// Timeouts
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,

			// Retry settings
			MaxRetries:      cfg.MaxRetries,
			MinRetryBackoff: cfg.MinRetryBackoff,
			MaxRetryBackoff: cfg.MaxRetryBackoff,
		})
	})
	return redisClient
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	return cs.client.Close()
}

// withRetry executes a Redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(ctx context.Context, operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableRedisError(err) {
			return err
		}

		backoff := min(100*(1<<attempt), 2000) // ms

		// add jitter ±50%
		jitter := 0
		jitterBytes := make([]byte, 4)
		if _, err := rand.Read(jitterBytes); err == nil {
			jitter = int(uint32(jitterBytes[0])<<24|uint32(jitterBytes[1])<<16|uint32(jitterBytes[2])<<8|uint32(jitterBytes[3])) % (backoff/2 + 1)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(backoff/2+jitter) * time.Millisecond):
		}
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// isRetryableRedisError determines if an error is worth retrying
func isRetryableRedisError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	for _, retryableErr := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Set sets a key with TTL and automatic retry logic
func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	}, 3)
}

// Get retrieves a key. A missing key yields "" and no error.
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	var result string

	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)

	return result, err
}

// Delete removes a key with automatic retry logic
func (cs *CacheService) Delete(ctx context.Context, key string) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, key).Err()
	}, 3)
}

// ============================================================================
// Auth
// ============================================================================

// BlacklistToken adds a token's jti to the blacklist until the token expires
func (cs *CacheService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := cs.config.Auth.BlacklistCacheTTL
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}

	return cs.Set(ctx, "blacklist:"+jti.String(), "true", ttl)
}

func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	val, err := cs.Get(ctx, "blacklist:"+jti.String())
	if err != nil {
		return false, err
	}

	return val == "true", nil
}

// GetCustomerFromCache returns nil without error on a cache miss
func (cs *CacheService) GetCustomerFromCache(ctx context.Context, customerID uuid.UUID) (*tables.Customer, error) {
	return getJSON[tables.Customer](ctx, cs, "customer:"+customerID.String())
}

// SetCustomerInCache stores a customer. PasswordHash is not serialized.
func (cs *CacheService) SetCustomerInCache(ctx context.Context, customer *tables.Customer) error {
	if customer == nil {
		return nil
	}
	return setJSON(ctx, cs, "customer:"+customer.Id.String(), customer, cs.config.Auth.CacheCustomerTTL)
}

// ============================================================================
// Rate limiting
// ============================================================================

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, ttl time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	var result int64
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(ctx, key, ttl).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

// GetRateLimitStatus returns current rate limit information for debugging
func (cs *CacheService) GetRateLimitStatus(ctx context.Context, ip, endpoint string) (map[string]any, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	var result map[string]any

	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = map[string]any{"count": 0, "ttl": 0}
			return nil
		}
		if err != nil {
			return err
		}

		ttl, err := cs.client.TTL(ctx, key).Result()
		if err != nil {
			return err
		}

		count, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid rate limit value: %w", err)
		}

		result = map[string]any{
			"count": count,
			"ttl":   int(ttl.Seconds()),
		}
		return nil
	}, 3)

	return result, err
}

// ============================================================================
// Carts
// ============================================================================

func cartKey(customerID uuid.UUID) string {
	return "cart:" + customerID.String()
}

// GetCart returns nil without error when the customer has no stored cart
func (cs *CacheService) GetCart(ctx context.Context, customerID uuid.UUID) (*structs.Cart, error) {
	return getJSON[structs.Cart](ctx, cs, cartKey(customerID))
}

// SaveCart replaces the stored cart wholesale and refreshes its TTL
func (cs *CacheService) SaveCart(ctx context.Context, cart *structs.Cart) error {
	return setJSON(ctx, cs, cartKey(cart.CustomerId), cart, cs.config.Cache.CartTTL)
}

func (cs *CacheService) DeleteCart(ctx context.Context, customerID uuid.UUID) error {
	return cs.Delete(ctx, cartKey(customerID))
}

// ============================================================================
// Menu
// ============================================================================

// GetMenu returns nil without error on a cache miss
func (cs *CacheService) GetMenu(ctx context.Context) (*structs.Menu, error) {
	menu, err := getJSON[structs.Menu](ctx, cs, menuCacheKey)
	if err != nil {
		cs.logger.Warn("Failed to get menu from cache", gecho.Field("error", err))
		return nil, err
	}
	return menu, nil
}

func (cs *CacheService) SetMenu(ctx context.Context, menu *structs.Menu) error {
	ttl := cs.config.Cache.MenuTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute // fallback default
	}
	return setJSON(ctx, cs, menuCacheKey, menu, ttl)
}

// InvalidateMenu drops the cached menu. Called after catalog or pricing changes.
func (cs *CacheService) InvalidateMenu(ctx context.Context) error {
	cs.logger.Info("Invalidating menu cache")
	return cs.Delete(ctx, menuCacheKey)
}

// ============================================================================
// Maintenance
// ============================================================================

// Ping tests the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Ping(ctx).Err()
	}, 3)
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) (int, error) {
	deletedCount := 0

	err := cs.withRetry(ctx, func() error {
		var cursor uint64
		for {
			keys, nextCursor, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
				deletedCount += len(keys)
			}

			cursor = nextCursor
			if cursor == 0 {
				return nil
			}
		}
	}, 3)

	return deletedCount, err
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
