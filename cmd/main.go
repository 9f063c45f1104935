package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicelab-pro/internal/auth"
	"voicelab-pro/internal/catalog"
	"voicelab-pro/internal/config"
	"voicelab-pro/internal/credentials"
	"voicelab-pro/internal/httpapi"
	"voicelab-pro/internal/metrics"
	"voicelab-pro/internal/migrations"
	"voicelab-pro/internal/store"
	"voicelab-pro/internal/token"
	"voicelab-pro/internal/tts"
	"voicelab-pro/internal/user"

	"go.uber.org/zap"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("запуск приложения VoiceLab Pro")

	// Инициализация базы данных
	store, err := store.NewStore(cfg, logger)
	if err != nil {
		logger.Fatal("ошибка инициализации базы данных", zap.Error(err))
	}
	defer store.Close()

	// Применение миграций
	if err := migrations.RunMigrations(cfg, logger); err != nil {
		logger.Fatal("ошибка применения миграций", zap.Error(err))
	}

	// Инициализация сервиса токенов
	tokenService := token.NewService(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)

	// Загрузка статических учетных данных
	validator, err := credentials.LoadFromFile(cfg.Auth.CredentialsPath, logger)
	if err != nil {
		logger.Fatal("ошибка загрузки учетных данных", zap.Error(err))
	}

	// Инициализация сервиса пользователей
	userService := user.NewService(store, validator, tokenService, logger)

	// Инициализация шлюза аутентификации
	gate := auth.NewGate(tokenService, userService, logger)

	// Инициализация TTS провайдеров
	caller := tts.NewCaller(cfg.App.MaxRetries, logger)
	elevenLabsService := tts.NewElevenLabsService(cfg.ElevenLabs.APIKey, cfg.ElevenLabs.BaseURL, caller, logger)
	cartesiaService := tts.NewCartesiaService(cfg.Cartesia.APIKey, cfg.Cartesia.BaseURL, cfg.Cartesia.Version, caller, logger)

	logger.Info("конфигурация TTS провайдеров",
		zap.Bool("elevenlabs_key_set", cfg.ElevenLabs.APIKey != ""),
		zap.Bool("cartesia_key_set", cfg.Cartesia.APIKey != ""),
		zap.Int("max_retries", cfg.App.MaxRetries))

	// Инициализация каталога голосов и моделей
	catalogService := catalog.NewService(logger)

	// Инициализация метрик
	metricsSystem := metrics.New(logger)
	metricsHandler := metrics.NewHandler(metricsSystem, func(ctx context.Context) error {
		return store.DB().Ping(ctx)
	}, logger)

	// Повторы вызовов провайдеров попадают в счетчик tts_retries_total
	caller.OnRetry(metricsSystem.RecordTTSRetry)

	// Инициализация HTTP сервера
	apiServer := httpapi.NewServer(
		userService,
		gate,
		elevenLabsService,
		cartesiaService,
		catalogService,
		metricsSystem,
		metricsHandler,
		cfg,
		logger,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      apiServer,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
	}

	// Обработка сигналов для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Запуск HTTP сервера
	go func() {
		logger.Info("HTTP сервер запущен",
			zap.String("address", fmt.Sprintf("http://localhost:%d", cfg.App.Port)))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ошибка HTTP сервера", zap.Error(err))
		}
	}()

	// Ожидание сигнала завершения
	<-sigChan
	logger.Info("получен сигнал завершения, начинаем graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка остановки HTTP сервера", zap.Error(err))
	}

	logger.Info("приложение завершено")
}

// initLogger инициализирует логгер с уровнем из конфигурации
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.App.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = cfg.App.GetLogLevel()

	return zapConfig.Build()
}
