package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics содержит все метрики приложения
type Metrics struct {
	logger *zap.Logger

	// Счетчики
	userLogins  *prometheus.CounterVec
	ttsRequests *prometheus.CounterVec
	ttsRetries  *prometheus.CounterVec
	authDenied  prometheus.Counter

	// Гистограммы
	ttsDuration *prometheus.HistogramVec
}

// New создает новый экземпляр метрик
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,

		// Счетчики входов
		userLogins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_logins_total",
				Help: "Общее количество попыток входа",
			},
			[]string{"status"}, // success, failed
		),

		// Счетчики TTS запросов
		ttsRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_requests_total",
				Help: "Общее количество запросов генерации речи",
			},
			[]string{"provider", "status"}, // provider: elevenlabs, cartesia; status: success, failed
		),

		// Счетчики повторов вызовов провайдеров
		ttsRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_retries_total",
				Help: "Общее количество повторов вызовов TTS провайдеров",
			},
			[]string{"provider", "class"}, // class: transient, rate_limited, ...
		),

		// Счетчик отказов аутентификации
		authDenied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_denied_total",
				Help: "Общее количество отказов аутентификации",
			},
		),

		// Гистограмма времени генерации
		ttsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tts_generation_seconds",
				Help:    "Время генерации речи в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}

	prometheus.MustRegister(
		m.userLogins,
		m.ttsRequests,
		m.ttsRetries,
		m.authDenied,
		m.ttsDuration,
	)

	return m
}

// RecordLogin фиксирует попытку входа
func (m *Metrics) RecordLogin(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	m.userLogins.WithLabelValues(status).Inc()
}

// RecordTTSRequest фиксирует результат запроса генерации речи
func (m *Metrics) RecordTTSRequest(provider, status string, duration time.Duration) {
	m.ttsRequests.WithLabelValues(provider, status).Inc()
	m.ttsDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordTTSRetry фиксирует повтор вызова провайдера
func (m *Metrics) RecordTTSRetry(provider, class string) {
	m.ttsRetries.WithLabelValues(provider, class).Inc()
}

// RecordAuthDenied фиксирует отказ аутентификации
func (m *Metrics) RecordAuthDenied() {
	m.authDenied.Inc()
}
