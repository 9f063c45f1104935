package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"voicelab-pro/internal/store"
	"voicelab-pro/internal/token"
	"voicelab-pro/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnauthenticated возвращается при любом отказе аутентификации.
// Причина (нет токена, неверный токен, истекший срок) наружу не раскрывается
var ErrUnauthenticated = errors.New("пользователь не аутентифицирован")

// UserResolver — коллаборатор для поиска или создания пользователя
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetOrCreate(ctx context.Context, username string) (*models.User, error)
}

// Gate извлекает токен из входящего запроса и разрешает его в пользователя
type Gate struct {
	tokens *token.Service
	users  UserResolver
	logger *zap.Logger
}

// NewGate создает новый шлюз аутентификации
func NewGate(tokens *token.Service, users UserResolver, logger *zap.Logger) *Gate {
	return &Gate{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Resolve разрешает входящий запрос в аутентифицированного пользователя.
// Cookie имеет приоритет над заголовком Authorization: браузерные клиенты
// ходят с cookie, API клиенты — с bearer токеном.
// Повторов нет: отказ аутентификации всегда терминален для запроса
func (g *Gate) Resolve(r *http.Request) (*models.User, error) {
	tokenString := TokenFromRequest(r)
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	// Токен несет user_id: поиск по ключу дешевле, чем upsert по имени.
	// Отсутствие записи не терминально — пользователь пересоздается по имени
	if claims.UserID != uuid.Nil {
		user, err := g.users.GetByID(r.Context(), claims.UserID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			g.logger.Error("не удалось разрешить пользователя по токену",
				zap.String("user_id", claims.UserID.String()),
				zap.Error(err))
			return nil, ErrUnauthenticated
		}
	}

	user, err := g.users.GetOrCreate(r.Context(), claims.Subject)
	if err != nil {
		g.logger.Error("не удалось разрешить пользователя по токену",
			zap.String("username", claims.Subject),
			zap.Error(err))
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// TokenFromRequest извлекает токен доступа из запроса:
// сначала из cookie, затем из заголовка Authorization: Bearer
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}
