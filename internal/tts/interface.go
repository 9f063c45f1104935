package tts

import (
	"context"

	"voicelab-pro/pkg/models"
)

// Service представляет интерфейс Text-to-Speech провайдера
type Service interface {
	// Synthesize преобразует текст в аудио
	Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error)
	// ListVoices возвращает список голосов провайдера
	ListVoices(ctx context.Context) ([]models.Voice, error)
	// Name возвращает имя провайдера
	Name() string
	// DefaultVoice возвращает голос по умолчанию
	DefaultVoice() models.Voice
}

// SynthesizeRequest представляет параметры генерации речи.
// Провайдеры используют только те поля, которые понимают
type SynthesizeRequest struct {
	Text     string
	VoiceID  string
	ModelID  string
	Language string

	// Настройки голоса ElevenLabs
	Stability       *float64
	SimilarityBoost *float64
	Style           *float64
	UseSpeakerBoost *bool

	// Настройки генерации Cartesia
	Speed   *float64
	Volume  *float64
	Emotion string
}
