package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voicelab-pro/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует в базе
var ErrNotFound = errors.New("запись не найдена")

// userRepository реализует UserRepository
type userRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// GetOrCreate возвращает пользователя по имени, создавая запись при первом входе.
// Идемпотентность обеспечивается upsert'ом по уникальному username
func (r *userRepository) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (username) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, username, created_at, updated_at`

	now := time.Now()
	user := &models.User{}

	err := r.db.QueryRow(ctx, query, uuid.New(), username, now).Scan(
		&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения или создания пользователя: %w", err)
	}

	r.logger.Debug("пользователь получен",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return user, nil
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT id, username, created_at, updated_at FROM users WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}

// GetByUsername получает пользователя по имени
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, created_at, updated_at FROM users WHERE username = $1`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}
