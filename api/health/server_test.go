package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"pizzeria_server/services"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func newTestRouter(db, cache error) chi.Router {
	logger := gecho.NewDefaultLogger()
	hs := services.NewHealthService(logger, stubPinger{db}, stubPinger{cache})

	r := chi.NewRouter()
	NewHealthRoutesManager(logger, hs).RegisterRoutes(r)
	return r
}

func get(r chi.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthRoutes(t *testing.T) {
	healthy := newTestRouter(nil, nil)
	assert.Equal(t, http.StatusOK, get(healthy, "/health/server").Code)
	assert.Equal(t, http.StatusOK, get(healthy, "/health/database").Code)
	assert.Equal(t, http.StatusOK, get(healthy, "/health/cache").Code)

	down := newTestRouter(errors.New("connection refused"), errors.New("connection refused"))
	assert.Equal(t, http.StatusServiceUnavailable, get(down, "/health/database").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(down, "/health/cache").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	services.OrdersPlaced.WithLabelValues("preparing").Inc()

	rec := get(newTestRouter(nil, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pizzeria_orders_placed_total")
}
