package user

import (
	"context"
	"errors"
	"fmt"

	"voicelab-pro/internal/credentials"
	"voicelab-pro/internal/store"
	"voicelab-pro/internal/token"
	"voicelab-pro/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль
var ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")

// Service представляет сервис для работы с пользователями и их историей
type Service struct {
	store     store.Store
	validator credentials.Validator
	tokens    *token.Service
	logger    *zap.Logger
}

// NewService создает новый сервис пользователей
func NewService(store store.Store, validator credentials.Validator, tokens *token.Service, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		validator: validator,
		tokens:    tokens,
		logger:    logger,
	}
}

// Login проверяет учетные данные и выпускает токен доступа.
// Пользователь создается в базе при первом успешном входе
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if !s.validator.Validate(username, password) {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.GetOrCreate(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	tokenString, err := s.tokens.Issue(user.Username, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка выпуска токена: %w", err)
	}

	s.logger.Info("пользователь вошел в систему",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return user, tokenString, nil
}

// GetOrCreate возвращает пользователя по имени, создавая его при необходимости.
// Сначала пробуется чтение: upsert выполняется только при первом входе,
// чтобы аутентификация каждого запроса не писала в базу
func (s *Service) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.User().GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return s.store.User().GetOrCreate(ctx, username)
}

// GetByID возвращает пользователя по идентификатору из токена
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.User().GetByID(ctx, id)
}

// RecordRequest сохраняет запись об успешной генерации в истории пользователя
func (s *Service) RecordRequest(ctx context.Context, req *models.TTSRequest) error {
	if err := s.store.Request().Create(ctx, req); err != nil {
		return fmt.Errorf("ошибка сохранения истории: %w", err)
	}
	return nil
}

// History возвращает страницу истории генераций пользователя
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit, offset int) (*models.HistoryResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	requests, err := s.store.Request().GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}

	total, err := s.store.Request().CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета истории: %w", err)
	}

	items := make([]models.HistoryItem, 0, len(requests))
	for _, req := range requests {
		items = append(items, models.HistoryItem{
			ID:        req.ID,
			Text:      req.Text,
			VoiceID:   req.VoiceID,
			Provider:  req.Provider,
			AudioURL:  req.AudioURL,
			CreatedAt: req.CreatedAt,
		})
	}

	return &models.HistoryResponse{Requests: items, Total: total}, nil
}
