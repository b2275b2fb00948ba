package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// getRateLimitForEndpoint returns the bucket name, limit and window for a request
func (mw *Middleware) getRateLimitForEndpoint(path, method string) (string, int, time.Duration) {
	rl := mw.cfg.RateLimit

	// Auth endpoints - strictest limits
	if strings.HasPrefix(path, "/auth/signin") ||
		strings.HasPrefix(path, "/auth/signup") ||
		strings.HasPrefix(path, "/auth/refresh") {
		return "auth", rl.AuthLimit, rl.AuthWindow
	}

	if method == http.MethodPost && strings.HasPrefix(path, "/checkout") {
		return "checkout", rl.CheckoutLimit, rl.CheckoutWindow
	}

	if strings.HasPrefix(path, "/staff") {
		return "staff", rl.StaffLimit, rl.StaffWindow
	}

	return "general", rl.GeneralLimit, rl.GeneralWindow
}

// getClientIP extracts the real client IP from request headers
func (mw *Middleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware counts requests per client and bucket in a fixed window.
// Cache errors let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			// Skip rate limiting for health checks and metrics scraping
			if r.URL.Path == "/" || strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := mw.getClientIP(r)
			bucket, limit, window := mw.getRateLimitForEndpoint(r.URL.Path, r.Method)

			count, err := mw.cacheService.IncrementRateLimit(r.Context(), clientIP, bucket, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
					gecho.Field("bucket", bucket),
				)
				next.ServeHTTP(w, r)
				return
			}

			reset := fmt.Sprintf("%d", time.Now().Add(window).Unix())

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("bucket", bucket),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", reset)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))

				gecho.TooManyRequests(w,
					gecho.WithMessage("error.rateLimit.exceeded"),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": int(window.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			remaining := max(0, limit-count)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", reset)

			next.ServeHTTP(w, r)
		})
	}
}
