package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) CacheStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}

// RateLimitStatus shows the counter for ?ip=&bucket=.
func (drm *DebugRoutesManager) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	bucket := r.URL.Query().Get("bucket")
	if ip == "" || bucket == "" {
		gecho.BadRequest(w, gecho.WithMessage("error.debug.ipAndBucketRequired"), gecho.Send())
		return
	}

	status, err := drm.cacheService.GetRateLimitStatus(r.Context(), ip, bucket)
	if err != nil {
		drm.logger.Error("Failed to read rate limit status", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("error.cache.readFailed"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}

// ClearCache removes keys matching ?pattern=, or every menu, cart and
// customer key when no pattern is given.
func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	patterns := []string{"menu:*", "cart:*", "customer:*"}
	if pattern := r.URL.Query().Get("pattern"); pattern != "" {
		patterns = []string{pattern}
	}

	deleted := 0
	for _, pattern := range patterns {
		n, err := drm.cacheService.DeletePattern(r.Context(), pattern)
		if err != nil {
			drm.logger.Error("Failed to clear cache", gecho.Field("error", err), gecho.Field("pattern", pattern))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.cache.clearFailed"),
				gecho.Send(),
			)
			return
		}
		deleted += n
	}

	gecho.Success(w,
		gecho.WithMessage("success.cache.cleared"),
		gecho.WithData(map[string]int{"deleted": deleted}),
		gecho.Send(),
	)
}
