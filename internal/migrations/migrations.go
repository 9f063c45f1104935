package migrations

import (
	"database/sql"
	"fmt"
	"os"

	"voicelab-pro/internal/config"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations применяет goose миграции из каталога cfg.Database.MigrationPath.
// Миграции идемпотентны: повторный запуск на актуальной схеме ничего не меняет
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("начало применения миграций",
		zap.String("path", cfg.Database.MigrationPath))

	if _, err := os.Stat(cfg.Database.MigrationPath); err != nil {
		return fmt.Errorf("каталог миграций недоступен: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("ошибка установки диалекта: %w", err)
	}

	// goose работает через database/sql, поэтому для миграций
	// открывается отдельное подключение поверх lib/pq
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("ошибка подключения к базе данных для миграций: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, cfg.Database.MigrationPath); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	logger.Info("миграции успешно применены")
	return nil
}
