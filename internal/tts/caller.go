package tts

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ProviderFunc представляет один сетевой вызов к TTS провайдеру
type ProviderFunc func(ctx context.Context) ([]byte, error)

// action представляет решение политики повторов после неудачной попытки
type action int

const (
	actionRetry action = iota
	actionAbort
	actionExhausted
)

// decision представляет действие и паузу перед следующей попыткой
type decision struct {
	action  action
	backoff time.Duration
}

// nextAction решает, что делать после неудачной попытки с данным классом ошибки.
// Чистая функция: политика тестируется без реальных задержек
func nextAction(class ErrorClass, attempt, maxAttempts int) decision {
	switch class {
	case ClassPermanentConfig, ClassPermanentAbuse:
		return decision{action: actionAbort}
	case ClassRateLimited:
		if attempt >= maxAttempts-1 {
			return decision{action: actionExhausted}
		}
		return decision{action: actionRetry, backoff: time.Duration(attempt+1) * 2 * time.Second}
	default:
		if attempt >= maxAttempts-1 {
			return decision{action: actionExhausted}
		}
		return decision{action: actionRetry, backoff: time.Duration(attempt+1) * time.Second}
	}
}

// RetryHook вызывается перед каждой повторной попыткой вызова провайдера
type RetryHook func(provider, class string)

// Caller оборачивает вызов провайдера ограниченными повторами
// с растущей паузой и классификацией ошибок
type Caller struct {
	maxAttempts int
	logger      *zap.Logger
	onRetry     RetryHook

	// sleep подменяется в тестах, чтобы не ждать реальное время
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCaller создает обертку вызовов с заданным числом попыток
func NewCaller(maxAttempts int, logger *zap.Logger) *Caller {
	return &Caller{
		maxAttempts: maxAttempts,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// OnRetry регистрирует hook, вызываемый при каждом повторе
func (c *Caller) OnRetry(hook RetryHook) {
	c.onRetry = hook
}

// sleepContext ждет заданную паузу, прерываясь при отмене контекста
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call выполняет вызов провайдера с повторами по политике nextAction.
// Пустой текст отбрасывается сразу, без обращения к провайдеру.
// Ошибки классов permanent_config и permanent_abuse прерывают повторы немедленно
func (c *Caller) Call(ctx context.Context, provider, text string, fn ProviderFunc, classify Classifier) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		c.logger.Debug("вызов TTS провайдера",
			zap.String("provider", provider),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.maxAttempts))

		audio, err := fn(ctx)
		if err == nil {
			return audio, nil
		}
		lastErr = err

		class := classify(err)
		d := nextAction(class, attempt, c.maxAttempts)

		switch d.action {
		case actionAbort:
			c.logger.Error("вызов TTS провайдера прерван",
				zap.String("provider", provider),
				zap.String("class", class.String()),
				zap.Error(err))
			return nil, &ProviderError{Class: class, Provider: provider, Attempts: attempt + 1, Err: err}

		case actionExhausted:
			c.logger.Error("попытки вызова TTS провайдера исчерпаны",
				zap.String("provider", provider),
				zap.String("class", class.String()),
				zap.Int("attempts", c.maxAttempts),
				zap.Error(err))
			return nil, &ProviderError{Class: class, Provider: provider, Attempts: c.maxAttempts, Err: err}

		case actionRetry:
			c.logger.Warn("вызов TTS провайдера не удался, повтор",
				zap.String("provider", provider),
				zap.String("class", class.String()),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", d.backoff),
				zap.Error(err))
			if c.onRetry != nil {
				c.onRetry(provider, class.String())
			}
			if err := c.sleep(ctx, d.backoff); err != nil {
				return nil, err
			}
		}
	}

	// Недостижимо: последняя итерация всегда завершается abort или exhausted
	return nil, &ProviderError{Class: ClassUnknown, Provider: provider, Attempts: c.maxAttempts, Err: lastErr}
}
