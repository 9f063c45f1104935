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
	// ProviderCartesia — имя провайдера Cartesia
	ProviderCartesia = "cartesia"

	cartesiaDefaultVoiceID = "6ccbfb76-1fc6-48f7-b71d-91ac6298247b"
	cartesiaDefaultModel   = "sonic-3"
)

// CartesiaService предоставляет функциональность Text-to-Speech через Cartesia API
type CartesiaService struct {
	logger     *zap.Logger
	apiKey     string
	baseURL    string
	version    string
	httpClient *http.Client
	caller     *Caller
}

// NewCartesiaService создает новый Cartesia TTS сервис
func NewCartesiaService(apiKey, baseURL, version string, caller *Caller, logger *zap.Logger) *CartesiaService {
	return &CartesiaService{
		logger:  logger,
		apiKey:  apiKey,
		baseURL: baseURL,
		version: version,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		caller: caller,
	}
}

// Name возвращает имя провайдера
func (s *CartesiaService) Name() string {
	return ProviderCartesia
}

// DefaultVoice возвращает голос по умолчанию
func (s *CartesiaService) DefaultVoice() models.Voice {
	return models.Voice{
		ID:          cartesiaDefaultVoiceID,
		Name:        "Default Voice",
		Description: "Стандартный голос Cartesia",
	}
}

// cartesiaOutputFormat представляет формат выходного аудио
type cartesiaOutputFormat struct {
	Container  string `json:"container"`
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

// cartesiaVoiceRef представляет ссылку на голос в запросе
type cartesiaVoiceRef struct {
	Mode string `json:"mode"`
	ID   string `json:"id"`
}

// cartesiaGenerationConfig представляет настройки генерации
type cartesiaGenerationConfig struct {
	Speed   float64 `json:"speed"`
	Volume  float64 `json:"volume"`
	Emotion string  `json:"emotion"`
}

// cartesiaTTSRequest представляет тело запроса к tts/bytes API
type cartesiaTTSRequest struct {
	ModelID          string                   `json:"model_id"`
	Transcript       string                   `json:"transcript"`
	Voice            cartesiaVoiceRef         `json:"voice"`
	OutputFormat     cartesiaOutputFormat     `json:"output_format"`
	GenerationConfig cartesiaGenerationConfig `json:"generation_config"`
	Language         string                   `json:"language,omitempty"`
}

// Synthesize преобразует текст в аудио через Cartesia API с повторами
func (s *CartesiaService) Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error) {
	if s.apiKey == "" {
		return nil, &ProviderError{
			Class:    ClassPermanentConfig,
			Provider: ProviderCartesia,
			Attempts: 1,
			Err:      errors.New("CARTESIA_API_KEY не установлен"),
		}
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = cartesiaDefaultVoiceID
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = cartesiaDefaultModel
	}

	genConfig := cartesiaGenerationConfig{
		Speed:   1.0,
		Volume:  1.0,
		Emotion: "neutral",
	}
	if req.Speed != nil {
		genConfig.Speed = *req.Speed
	}
	if req.Volume != nil {
		genConfig.Volume = *req.Volume
	}
	if req.Emotion != "" {
		genConfig.Emotion = req.Emotion
	}

	body := cartesiaTTSRequest{
		ModelID:    modelID,
		Transcript: req.Text,
		Voice:      cartesiaVoiceRef{Mode: "id", ID: voiceID},
		OutputFormat: cartesiaOutputFormat{
			Container:  "wav",
			Encoding:   "pcm_f32le",
			SampleRate: 44100,
		},
		GenerationConfig: genConfig,
		Language:         req.Language,
	}

	return s.caller.Call(ctx, ProviderCartesia, req.Text, func(ctx context.Context) ([]byte, error) {
		return s.generate(ctx, body)
	}, ClassifyCartesiaError)
}

// generate выполняет один запрос к tts/bytes API
func (s *CartesiaService) generate(ctx context.Context, body cartesiaTTSRequest) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/tts/bytes", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", s.apiKey)
	req.Header.Set("Cartesia-Version", s.version)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Cartesia вернул ошибку %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аудио данных: %w", err)
	}

	return audio, nil
}

// cartesiaVoicesResponse представляет ответ voices API
type cartesiaVoicesResponse struct {
	Voices []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		PreviewURL  string `json:"preview_url"`
	} `json:"voices"`
}

// ListVoices возвращает список голосов Cartesia
func (s *CartesiaService) ListVoices(ctx context.Context) ([]models.Voice, error) {
	if s.apiKey == "" {
		return nil, &ProviderError{
			Class:    ClassPermanentConfig,
			Provider: ProviderCartesia,
			Attempts: 1,
			Err:      errors.New("CARTESIA_API_KEY не установлен"),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("X-API-Key", s.apiKey)
	req.Header.Set("Cartesia-Version", s.version)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Cartesia вернул ошибку %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed cartesiaVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	voices := make([]models.Voice, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		name := v.Name
		if name == "" {
			name = "Unknown"
		}
		voices = append(voices, models.Voice{
			ID:          v.ID,
			Name:        name,
			Description: v.Description,
			PreviewURL:  v.PreviewURL,
		})
	}

	s.logger.Info("получен список голосов Cartesia", zap.Int("count", len(voices)))
	return voices, nil
}

// ClassifyCartesiaError отображает текст ошибки Cartesia в общий класс
func ClassifyCartesiaError(err error) ErrorClass {
	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") {
		return ClassPermanentConfig
	}

	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return ClassRateLimited
	}

	return ClassTransient
}
