package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"voicelab-pro/internal/tts"
	"voicelab-pro/pkg/models"

	"go.uber.org/zap"
)

// handleGenerate генерирует речь через ElevenLabs и сохраняет запрос в историю
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	u, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.generate(w, r, u, req, s.elevenlabs, "audio/mpeg")
}

// generate выполняет синтез на указанном провайдере и формирует ответ.
// Аудио возвращается как base64 data URL и сохраняется в истории
func (s *Server) generate(w http.ResponseWriter, r *http.Request, u *models.User, req models.GenerateRequest, provider tts.Service, mimeType string) {
	start := time.Now()

	audio, err := provider.Synthesize(r.Context(), tts.SynthesizeRequest{
		Text:            req.Text,
		VoiceID:         req.VoiceID,
		ModelID:         req.ModelID,
		Language:        req.Language,
		Stability:       req.Stability,
		SimilarityBoost: req.SimilarityBoost,
		Style:           req.Style,
		UseSpeakerBoost: req.UseSpeakerBoost,
		Speed:           req.Speed,
		Volume:          req.Volume,
		Emotion:         req.Emotion,
	})
	if err != nil {
		s.metrics.RecordTTSRequest(provider.Name(), "failed", time.Since(start))
		s.respondSynthesisError(w, provider.Name(), err)
		return
	}

	audioURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(audio)

	record := &models.TTSRequest{
		UserID:   u.ID,
		Text:     req.Text,
		VoiceID:  req.VoiceID,
		Provider: provider.Name(),
		AudioURL: audioURL,
	}
	if err := s.users.RecordRequest(r.Context(), record); err != nil {
		s.logger.Error("ошибка сохранения запроса в историю",
			zap.String("provider", provider.Name()),
			zap.String("user_id", u.ID.String()),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate audio")
		return
	}

	s.metrics.RecordTTSRequest(provider.Name(), "success", time.Since(start))

	respondJSON(w, http.StatusOK, models.GenerateResponse{
		RequestID: record.ID,
		AudioURL:  audioURL,
		Text:      req.Text,
		VoiceID:   req.VoiceID,
		CreatedAt: record.CreatedAt,
	})
}

// respondSynthesisError переводит ошибку синтеза в HTTP статус.
// Постоянные ошибки конфигурации и блокировки отдаются клиенту как есть,
// остальные сбои скрываются за общим сообщением
func (s *Server) respondSynthesisError(w http.ResponseWriter, providerName string, err error) {
	if errors.Is(err, tts.ErrEmptyText) {
		respondError(w, http.StatusBadRequest, "Text cannot be empty")
		return
	}

	if class, ok := tts.ClassOf(err); ok {
		switch class {
		case tts.ClassPermanentConfig, tts.ClassPermanentAbuse:
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.logger.Error("ошибка генерации речи",
		zap.String("provider", providerName),
		zap.Error(err))
	respondError(w, http.StatusInternalServerError, "Failed to generate audio")
}

// handleHistory возвращает историю генераций пользователя
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	u, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	history, err := s.users.History(r.Context(), u.ID, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения истории",
			zap.String("user_id", u.ID.String()),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// handleVoices возвращает список голосов ElevenLabs
func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	voices := s.catalog.Voices(r.Context(), s.elevenlabs)
	respondJSON(w, http.StatusOK, map[string]any{"voices": voices})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
