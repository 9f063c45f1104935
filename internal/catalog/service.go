package catalog

import (
	"context"
	"sort"
	"strings"

	"voicelab-pro/internal/tts"
	"voicelab-pro/pkg/models"

	"go.uber.org/zap"
)

// Service отдает справочники голосов, моделей и языков провайдеров.
// Список голосов — вспомогательный endpoint: при любом сбое провайдера
// возвращается голос по умолчанию, ошибка наружу не выходит
type Service struct {
	logger *zap.Logger
}

// NewService создает новый сервис справочников
func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Voices возвращает отсортированный список голосов провайдера.
// При ошибке или пустом ответе возвращает единственный голос по умолчанию
func (s *Service) Voices(ctx context.Context, provider tts.Service) []models.Voice {
	voices, err := provider.ListVoices(ctx)
	if err != nil {
		s.logger.Warn("не удалось получить список голосов, используем голос по умолчанию",
			zap.String("provider", provider.Name()),
			zap.Error(err))
		return []models.Voice{provider.DefaultVoice()}
	}

	if len(voices) == 0 {
		s.logger.Warn("провайдер вернул пустой список голосов, используем голос по умолчанию",
			zap.String("provider", provider.Name()))
		return []models.Voice{provider.DefaultVoice()}
	}

	sortVoices(voices)
	return voices
}

// sortVoices сортирует голоса: сначала premade/default, затем по имени
// без учета регистра
func sortVoices(voices []models.Voice) {
	sort.SliceStable(voices, func(i, j int) bool {
		ri, rj := categoryRank(voices[i].Category), categoryRank(voices[j].Category)
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(voices[i].Name) < strings.ToLower(voices[j].Name)
	})
}

func categoryRank(category string) int {
	switch category {
	case "premade", "default":
		return 0
	default:
		return 1
	}
}

// ElevenLabsModels возвращает статический список моделей ElevenLabs
func (s *Service) ElevenLabsModels() []models.TTSModel {
	return []models.TTSModel{
		{ID: "eleven_v3", Name: "Eleven v3", Description: "Наиболее выразительная модель"},
		{ID: "eleven_multilingual_v2", Name: "Eleven Multilingual v2", Description: "Мультиязычная модель"},
		{ID: "eleven_flash_v2_5", Name: "Eleven Flash v2.5", Description: "Быстрая модель с низкой задержкой"},
		{ID: "eleven_turbo_v2_5", Name: "Eleven Turbo v2.5", Description: "Баланс скорости и качества"},
	}
}

// CartesiaModels возвращает статический список моделей Cartesia
func (s *Service) CartesiaModels() []models.TTSModel {
	return []models.TTSModel{
		{ID: "sonic-3", Name: "Sonic 3", Description: "Самая быстрая и реалистичная модель (задержка 90мс)"},
		{ID: "sonic-turbo", Name: "Sonic Turbo", Description: "Сверхбыстрая модель (задержка 40мс)"},
		{ID: "sonic-multilingual", Name: "Sonic Multilingual", Description: "Мультиязычная модель"},
	}
}

// CartesiaLanguages возвращает статический список языков Cartesia
func (s *Service) CartesiaLanguages() []models.Language {
	return []models.Language{
		{Code: "en", Name: "English"},
		{Code: "fr", Name: "French"},
		{Code: "de", Name: "German"},
		{Code: "es", Name: "Spanish"},
		{Code: "pt", Name: "Portuguese"},
		{Code: "zh", Name: "Chinese"},
		{Code: "ja", Name: "Japanese"},
		{Code: "hi", Name: "Hindi"},
		{Code: "it", Name: "Italian"},
		{Code: "ko", Name: "Korean"},
		{Code: "nl", Name: "Dutch"},
		{Code: "pl", Name: "Polish"},
		{Code: "ru", Name: "Russian"},
		{Code: "sv", Name: "Swedish"},
		{Code: "tr", Name: "Turkish"},
		{Code: "ar", Name: "Arabic"},
	}
}
