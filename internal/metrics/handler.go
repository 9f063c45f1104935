package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Probe проверяет доступность зависимости сервиса
type Probe func(ctx context.Context) error

// Handler обрабатывает HTTP запросы для метрик и проверок здоровья
type Handler struct {
	metrics *Metrics
	dbProbe Probe
	started time.Time
	logger  *zap.Logger
}

// NewHandler создает новый обработчик метрик
func NewHandler(metrics *Metrics, dbProbe Probe, logger *zap.Logger) *Handler {
	return &Handler{
		metrics: metrics,
		dbProbe: dbProbe,
		started: time.Now(),
		logger:  logger,
	}
}

// MetricsHandler возвращает HTTP handler для Prometheus метрик
func (h *Handler) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// HealthHandler возвращает статус здоровья сервиса
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "voicelab-pro",
		"uptime":  time.Since(h.started).Truncate(time.Second).String(),
	})
}

// ReadyHandler проверяет готовность сервиса принимать запросы.
// Сервис не готов, пока недоступна база данных
func (h *Handler) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.dbProbe != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := h.dbProbe(ctx); err != nil {
			h.logger.Warn("база данных недоступна", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
