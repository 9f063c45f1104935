package store

import (
	"context"
	"fmt"
	"time"

	"voicelab-pro/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// requestRepository реализует RequestRepository
type requestRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewRequestRepository создает новый репозиторий истории TTS запросов
func NewRequestRepository(db *pgxpool.Pool, logger *zap.Logger) RequestRepository {
	return &requestRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет запись об успешной генерации в истории пользователя.
// Запись после создания не изменяется
func (r *requestRepository) Create(ctx context.Context, req *models.TTSRequest) error {
	query := `
		INSERT INTO tts_requests (id, user_id, text, voice_id, provider, audio_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		req.ID, req.UserID, req.Text, req.VoiceID, req.Provider, req.AudioURL, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания записи истории: %w", err)
	}

	r.logger.Debug("создана запись истории",
		zap.String("request_id", req.ID.String()),
		zap.String("user_id", req.UserID.String()),
		zap.String("provider", req.Provider))

	return nil
}

// GetByUserID получает историю генераций пользователя, новые записи первыми
func (r *requestRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.TTSRequest, error) {
	query := `
		SELECT id, user_id, text, voice_id, provider, audio_url, created_at
		FROM tts_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}
	defer rows.Close()

	var requests []models.TTSRequest
	for rows.Next() {
		req := models.TTSRequest{}
		err := rows.Scan(
			&req.ID, &req.UserID, &req.Text, &req.VoiceID, &req.Provider, &req.AudioURL, &req.CreatedAt,
		)
		if err != nil {
			r.logger.Error("ошибка сканирования записи истории", zap.Error(err))
			continue
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// CountByUserID возвращает количество записей в истории пользователя
func (r *requestRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM tts_requests WHERE user_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей истории: %w", err)
	}

	return count, nil
}
