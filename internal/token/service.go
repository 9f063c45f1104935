package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken возвращается, когда токен не прошел проверку.
// Просроченный токен — это ожидаемый исход, а не сбой, поэтому он
// тоже сводится к этой ошибке.
var ErrInvalidToken = errors.New("недействительный токен")

// Claims содержит утверждения токена доступа: стандартные (sub, iat, exp)
// и идентификатор пользователя
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// Service выпускает и проверяет подписанные токены доступа.
// Секрет подписи задается один раз при старте процесса и не меняется.
type Service struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// NewService создает новый сервис токенов
func NewService(secretKey string, tokenTTL time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

// Issue выпускает подписанный токен для пользователя со сроком действия TTL
func (s *Service) Issue(username string, userID uuid.UUID) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

// Verify проверяет подпись и срок действия токена и возвращает его утверждения.
// Любая причина отказа (неверная подпись, мусор вместо токена, истекший срок)
// сводится к ErrInvalidToken
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
