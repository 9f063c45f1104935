package store

import (
	"context"
	"fmt"
	"time"

	"voicelab-pro/internal/config"
	"voicelab-pro/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store представляет интерфейс для работы с базой данных
type Store interface {
	User() UserRepository
	Request() RequestRepository
	DB() *pgxpool.Pool
	Close() error
}

// store реализует интерфейс Store
type store struct {
	db      *pgxpool.Pool
	logger  *zap.Logger
	user    UserRepository
	request RequestRepository
}

// UserRepository интерфейс для работы с пользователями
type UserRepository interface {
	// GetOrCreate возвращает пользователя по имени, создавая его при первом входе
	GetOrCreate(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// RequestRepository интерфейс для работы с историей TTS запросов
type RequestRepository interface {
	Create(ctx context.Context, req *models.TTSRequest) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.TTSRequest, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
}

// NewStore создает новое подключение к базе данных
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Создание пула подключений
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	// Настройка пула
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	// Создание пула
	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Проверка подключения
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ошибка проверки подключения: %w", err)
	}

	logger.Info("подключение к базе данных установлено",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name))

	return &store{
		db:      db,
		logger:  logger,
		user:    NewUserRepository(db, logger),
		request: NewRequestRepository(db, logger),
	}, nil
}

// User возвращает репозиторий пользователей
func (s *store) User() UserRepository {
	return s.user
}

// Request возвращает репозиторий истории TTS запросов
func (s *store) Request() RequestRepository {
	return s.request
}

// DB возвращает пул подключений
func (s *store) DB() *pgxpool.Pool {
	return s.db
}

// Close закрывает подключение к базе данных
func (s *store) Close() error {
	s.db.Close()
	s.logger.Info("подключение к базе данных закрыто")
	return nil
}
