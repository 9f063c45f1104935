package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMetrics(t *testing.T) {
	logger := zap.NewNop()
	m := New(logger)

	m.RecordLogin(true)
	m.RecordLogin(false)

	m.RecordTTSRequest("elevenlabs", "success", 2*time.Second)
	m.RecordTTSRequest("cartesia", "failed", 500*time.Millisecond)

	m.RecordTTSRetry("elevenlabs", "rate_limited")
	m.RecordTTSRetry("cartesia", "transient")

	m.RecordAuthDenied()

	t.Run("health", func(t *testing.T) {
		h := NewHandler(m, nil, logger)

		rec := httptest.NewRecorder()
		h.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("ожидался статус 200, получен %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "voicelab-pro") {
			t.Errorf("ответ не содержит имя сервиса: %s", rec.Body.String())
		}
	})

	t.Run("ready without probe", func(t *testing.T) {
		h := NewHandler(m, nil, logger)

		rec := httptest.NewRecorder()
		h.ReadyHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("ожидался статус 200, получен %d", rec.Code)
		}
	})

	t.Run("ready with failing probe", func(t *testing.T) {
		h := NewHandler(m, func(ctx context.Context) error {
			return context.DeadlineExceeded
		}, logger)

		rec := httptest.NewRecorder()
		h.ReadyHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("ожидался статус 503, получен %d", rec.Code)
		}
	})
}
