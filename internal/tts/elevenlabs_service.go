package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voicelab-pro/pkg/models"

	"go.uber.org/zap"
)

const (
	// ProviderElevenLabs — имя провайдера ElevenLabs
	ProviderElevenLabs = "elevenlabs"

	elevenLabsDefaultVoiceID = "JBFqnCBsd6RMkjVDRZzb"
	elevenLabsDefaultModel   = "eleven_v3"
	elevenLabsOutputFormat   = "mp3_44100_128"
)

// ElevenLabsService предоставляет функциональность Text-to-Speech через ElevenLabs API
type ElevenLabsService struct {
	logger     *zap.Logger
	apiKey     string
	baseURL    string
	httpClient *http.Client
	caller     *Caller
}

// NewElevenLabsService создает новый ElevenLabs TTS сервис
func NewElevenLabsService(apiKey, baseURL string, caller *Caller, logger *zap.Logger) *ElevenLabsService {
	return &ElevenLabsService{
		logger:  logger,
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		caller: caller,
	}
}

// Name возвращает имя провайдера
func (s *ElevenLabsService) Name() string {
	return ProviderElevenLabs
}

// DefaultVoice возвращает голос по умолчанию
func (s *ElevenLabsService) DefaultVoice() models.Voice {
	return models.Voice{
		ID:          elevenLabsDefaultVoiceID,
		Name:        "George",
		Category:    "premade",
		Description: "Стандартный голос ElevenLabs",
	}
}

// elevenLabsVoiceSettings представляет настройки голоса в запросе к API
type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// elevenLabsTTSRequest представляет тело запроса к text-to-speech API
type elevenLabsTTSRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	LanguageCode  string                  `json:"language_code,omitempty"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// Synthesize преобразует текст в аудио через ElevenLabs API с повторами
func (s *ElevenLabsService) Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error) {
	if s.apiKey == "" {
		return nil, &ProviderError{
			Class:    ClassPermanentConfig,
			Provider: ProviderElevenLabs,
			Attempts: 1,
			Err:      errors.New("ELEVENLABS_API_KEY не установлен"),
		}
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = elevenLabsDefaultVoiceID
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = elevenLabsDefaultModel
	}

	// Настройки голоса по умолчанию из рекомендаций ElevenLabs
	settings := elevenLabsVoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
	if req.Stability != nil {
		settings.Stability = *req.Stability
	}
	if req.SimilarityBoost != nil {
		settings.SimilarityBoost = *req.SimilarityBoost
	}
	if req.Style != nil {
		settings.Style = *req.Style
	}
	if req.UseSpeakerBoost != nil {
		settings.UseSpeakerBoost = *req.UseSpeakerBoost
	}

	body := elevenLabsTTSRequest{
		Text:          req.Text,
		ModelID:       modelID,
		LanguageCode:  req.Language,
		VoiceSettings: settings,
	}

	return s.caller.Call(ctx, ProviderElevenLabs, req.Text, func(ctx context.Context) ([]byte, error) {
		return s.convert(ctx, voiceID, body)
	}, ClassifyElevenLabsError)
}

// convert выполняет один запрос к text-to-speech API
func (s *ElevenLabsService) convert(ctx context.Context, voiceID string, body elevenLabsTTSRequest) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", s.baseURL, voiceID, elevenLabsOutputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs вернул ошибку %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аудио данных: %w", err)
	}

	return audio, nil
}

// elevenLabsVoicesResponse представляет ответ voices API
type elevenLabsVoicesResponse struct {
	Voices []struct {
		VoiceID     string `json:"voice_id"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
		PreviewURL  string `json:"preview_url"`
	} `json:"voices"`
}

// ListVoices возвращает список голосов ElevenLabs
func (s *ElevenLabsService) ListVoices(ctx context.Context) ([]models.Voice, error) {
	if s.apiKey == "" {
		return nil, &ProviderError{
			Class:    ClassPermanentConfig,
			Provider: ProviderElevenLabs,
			Attempts: 1,
			Err:      errors.New("ELEVENLABS_API_KEY не установлен"),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs вернул ошибку %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed elevenLabsVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	voices := make([]models.Voice, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		category := v.Category
		if category == "" {
			category = "premade"
		}
		voices = append(voices, models.Voice{
			ID:          v.VoiceID,
			Name:        v.Name,
			Category:    category,
			Description: v.Description,
			PreviewURL:  v.PreviewURL,
		})
	}

	s.logger.Info("получен список голосов ElevenLabs", zap.Int("count", len(voices)))
	return voices, nil
}

// ClassifyElevenLabsError отображает текст ошибки ElevenLabs в общий класс.
// Сопоставление по подстрокам изолировано здесь, сама обертка вызовов
// от провайдера не зависит
func ClassifyElevenLabsError(err error) ErrorClass {
	msg := strings.ToLower(err.Error())

	// Блокировка по подозрению в злоупотреблении опознается раньше 401:
	// провайдер сообщает о ней тем же статусом
	if strings.Contains(msg, "detected_unusual_activity") ||
		strings.Contains(msg, "unusual activity") ||
		strings.Contains(msg, "abuse") {
		return ClassPermanentAbuse
	}

	if strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") {
		return ClassPermanentConfig
	}

	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return ClassRateLimited
	}

	return ClassTransient
}
