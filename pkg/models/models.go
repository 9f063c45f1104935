package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя в системе
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TTSRequest представляет запрос на генерацию речи в истории пользователя
type TTSRequest struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	VoiceID   string    `json:"voice_id" db:"voice_id"`
	Provider  string    `json:"provider" db:"provider"` // elevenlabs, cartesia
	AudioURL  string    `json:"audio_url" db:"audio_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Voice представляет голос TTS провайдера
type Voice struct {
	ID          string `json:"voice_id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"` // premade, default, community
	Description string `json:"description"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// TTSModel представляет модель синтеза речи провайдера
type TTSModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Language представляет поддерживаемый язык синтеза
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse представляет ответ на успешный вход
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
	Message     string `json:"message"`
}

// GenerateRequest представляет запрос на генерацию TTS аудио
type GenerateRequest struct {
	Text            string   `json:"text"`
	VoiceID         string   `json:"voice_id,omitempty"`
	ModelID         string   `json:"model_id,omitempty"`
	Language        string   `json:"language,omitempty"`
	Stability       *float64 `json:"stability,omitempty"`
	SimilarityBoost *float64 `json:"similarity_boost,omitempty"`
	Style           *float64 `json:"style,omitempty"`
	UseSpeakerBoost *bool    `json:"use_speaker_boost,omitempty"`
	Speed           *float64 `json:"speed,omitempty"`
	Volume          *float64 `json:"volume,omitempty"`
	Emotion         string   `json:"emotion,omitempty"`
}

// GenerateResponse представляет ответ с готовым аудио
type GenerateResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	AudioURL  string    `json:"audio_url"`
	Text      string    `json:"text"`
	VoiceID   string    `json:"voice_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryItem представляет элемент истории генераций
type HistoryItem struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	VoiceID   string    `json:"voice_id,omitempty"`
	Provider  string    `json:"provider"`
	AudioURL  string    `json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse представляет историю генераций пользователя
type HistoryResponse struct {
	Requests []HistoryItem `json:"requests"`
	Total    int           `json:"total"`
}
