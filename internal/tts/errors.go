package tts

import (
	"errors"
	"fmt"
)

// ErrEmptyText возвращается при попытке синтеза пустого текста.
// Запрос к провайдеру при этом не выполняется
var ErrEmptyText = errors.New("текст не может быть пустым")

// ErrorClass представляет класс ошибки провайдера, определяющий
// решение о повторе вызова
type ErrorClass int

const (
	// ClassTransient — временный сбой, вызов можно повторить
	ClassTransient ErrorClass = iota
	// ClassRateLimited — провайдер ограничил частоту запросов
	ClassRateLimited
	// ClassPermanentConfig — неверный или отсутствующий API ключ, повтор бесполезен
	ClassPermanentConfig
	// ClassPermanentAbuse — провайдер заблокировал аккаунт по подозрению в злоупотреблении
	ClassPermanentAbuse
	// ClassUnknown — неопознанный сбой, обрабатывается как временный
	ClassUnknown
)

// String возвращает строковое представление класса ошибки
func (c ErrorClass) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassRateLimited:
		return "rate_limited"
	case ClassPermanentConfig:
		return "permanent_config"
	case ClassPermanentAbuse:
		return "permanent_abuse"
	default:
		return "unknown"
	}
}

// ProviderError представляет классифицированный сбой вызова провайдера
type ProviderError struct {
	Class    ErrorClass
	Provider string
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("%s: вызов не удался после %d попыток: %v", e.Provider, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ClassOf извлекает класс ошибки из классифицированного сбоя.
// Для прочих ошибок возвращает ClassUnknown и false
func ClassOf(err error) (ErrorClass, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Class, true
	}
	return ClassUnknown, false
}

// Classifier отображает сырую ошибку провайдера в общий класс.
// У каждого провайдера свой классификатор, сам вызов от провайдера не зависит
type Classifier func(err error) ErrorClass
