package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassifyCartesiaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{name: "неверный ключ", err: errors.New("Cartesia вернул ошибку 401: invalid key"), want: ClassPermanentConfig},
		{name: "unauthorized", err: errors.New("unauthorized request"), want: ClassPermanentConfig},
		{name: "превышен лимит", err: errors.New("Cartesia вернул ошибку 429: slow down"), want: ClassRateLimited},
		{name: "rate limit в тексте", err: errors.New("rate limit hit"), want: ClassRateLimited},
		{name: "сетевой сбой", err: errors.New("dial tcp: timeout"), want: ClassTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCartesiaError(tt.err))
		})
	}
}

func TestCartesiaSynthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tts/bytes", r.URL.Path)
		assert.Equal(t, "test_key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2025-04-16", r.Header.Get("Cartesia-Version"))

		var body cartesiaTTSRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, cartesiaDefaultModel, body.ModelID)
		assert.Equal(t, "привет", body.Transcript)
		assert.Equal(t, "id", body.Voice.Mode)
		assert.Equal(t, cartesiaDefaultVoiceID, body.Voice.ID)
		assert.Equal(t, "wav", body.OutputFormat.Container)
		assert.Equal(t, 1.0, body.GenerationConfig.Speed)
		assert.Equal(t, "neutral", body.GenerationConfig.Emotion)

		w.Write([]byte("wav-audio"))
	}))
	defer server.Close()

	svc := NewCartesiaService("test_key", server.URL, "2025-04-16", NewCaller(3, zap.NewNop()), zap.NewNop())

	audio, err := svc.Synthesize(context.Background(), SynthesizeRequest{Text: "привет"})
	require.NoError(t, err)
	assert.Equal(t, []byte("wav-audio"), audio)
}

func TestCartesiaSynthesizeRetriesTransient(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("wav-audio"))
	}))
	defer server.Close()

	caller := NewCaller(3, zap.NewNop())
	caller.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	svc := NewCartesiaService("test_key", server.URL, "2025-04-16", caller, zap.NewNop())

	audio, err := svc.Synthesize(context.Background(), SynthesizeRequest{Text: "привет"})
	require.NoError(t, err)
	assert.Equal(t, []byte("wav-audio"), audio)
	assert.Equal(t, 3, calls)
}

func TestCartesiaSynthesizeMissingKey(t *testing.T) {
	svc := NewCartesiaService("", "http://unused", "2025-04-16", NewCaller(3, zap.NewNop()), zap.NewNop())

	_, err := svc.Synthesize(context.Background(), SynthesizeRequest{Text: "привет"})

	class, ok := ClassOf(err)
	assert.True(t, ok)
	assert.Equal(t, ClassPermanentConfig, class)
}

func TestCartesiaListVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voices", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"voices":[
			{"id":"c1","name":"Sophie","description":"мягкий голос","preview_url":"https://example.com/p1"},
			{"id":"c2","name":"","description":"без имени"}
		]}`))
	}))
	defer server.Close()

	svc := NewCartesiaService("test_key", server.URL, "2025-04-16", NewCaller(3, zap.NewNop()), zap.NewNop())

	voices, err := svc.ListVoices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 2)
	assert.Equal(t, "Sophie", voices[0].Name)
	assert.Equal(t, "Unknown", voices[1].Name)
}
