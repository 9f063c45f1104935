package credentials

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Validator представляет интерфейс проверки учетных данных.
// Конкретное хранилище (статический список, база, внешний IdP) —
// внешний коллаборатор
type Validator interface {
	Validate(username, password string) bool
}

// Entry представляет одну учетную запись из файла учетных данных.
// Заполняется либо Password (открытый текст), либо PasswordHash (bcrypt)
type Entry struct {
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// credentialsFile представляет формат файла учетных данных
type credentialsFile struct {
	Users []Entry `json:"users"`
}

// StaticValidator проверяет учетные данные по статическому списку,
// загруженному при старте процесса
type StaticValidator struct {
	entries map[string]Entry
	logger  *zap.Logger
}

// NewStaticValidator создает валидатор из списка учетных записей
func NewStaticValidator(entries []Entry, logger *zap.Logger) *StaticValidator {
	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Username] = e
	}

	return &StaticValidator{
		entries: byName,
		logger:  logger,
	}
}

// LoadFromFile загружает учетные данные из JSON файла и создает валидатор
func LoadFromFile(path string, logger *zap.Logger) (*StaticValidator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла учетных данных: %w", err)
	}

	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ошибка парсинга файла учетных данных: %w", err)
	}

	logger.Info("учетные данные загружены",
		zap.String("path", path),
		zap.Int("count", len(file.Users)))

	return NewStaticValidator(file.Users, logger), nil
}

// Validate проверяет пару логин/пароль по статическому списку
func (v *StaticValidator) Validate(username, password string) bool {
	entry, ok := v.entries[username]
	if !ok {
		return false
	}

	if entry.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(entry.Password), []byte(password)) == 1
}
