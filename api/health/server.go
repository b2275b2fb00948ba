package health

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (hrm *HealthRoutesManager) GetServerHealth(w http.ResponseWriter, r *http.Request) {
	healthStatus := hrm.healthService.GetServerHealthStatus()
	gecho.Success(w,
		gecho.WithData(healthStatus),
		gecho.Send(),
	)
}

func (hrm *HealthRoutesManager) GetDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	status, err := hrm.healthService.GetDatabaseHealthStatus(r.Context())
	if err != nil {
		hrm.logger.Warn("Database health check failed", gecho.Field("error", err))
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("error.health.database"),
			gecho.WithData(status),
			gecho.Send(),
		)
		return
	}
	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}

func (hrm *HealthRoutesManager) GetCacheHealth(w http.ResponseWriter, r *http.Request) {
	status, err := hrm.healthService.GetCacheHealthStatus(r.Context())
	if err != nil {
		hrm.logger.Warn("Cache health check failed", gecho.Field("error", err))
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("error.health.cache"),
			gecho.WithData(status),
			gecho.Send(),
		)
		return
	}
	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}
