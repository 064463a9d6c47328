// Package db opens the gorm connection used by the credential store.
package db

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"wth_backend/internal/config"
)

// ErrUnsupportedDriver is returned for a DB_DRIVER other than postgres or sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the postgres connection string.
// DATABASE_URL wins over the individual host settings.
func BuildDSN(cfg config.DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		logger.Warn("db connect failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(retryInterval)
	}
}

// OpenerFor returns the opener for the configured driver.
// TranslateError is enabled so unique violations surface as gorm.ErrDuplicatedKey.
// gorm logs go through logger; record-not-found is an expected lookup result and is not logged.
func OpenerFor(driver string, logger *zap.Logger) (Opener, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
	switch driver {
	case "postgres":
		return func(dsn string) (*gorm.DB, error) {
			db, err := gorm.Open(postgres.Open(dsn), gcfg)
			if err != nil {
				return nil, err
			}
			if err := pingOrClose(db); err != nil {
				return nil, err
			}
			return db, nil
		}, nil
	case "sqlite":
		return func(dsn string) (*gorm.DB, error) {
			db, err := gorm.Open(sqlite.Open(dsn), gcfg)
			if err != nil {
				return nil, err
			}
			// One connection: sqlite serializes writers and each :memory: connection is its own database.
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
			return db, nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Open connects to the configured store and runs migrations for models when RUN_MIGRATIONS is set.
func Open(cfg config.DBConfig, logger *zap.Logger, models ...any) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opener, err := OpenerFor(cfg.Driver, logger)
	if err != nil {
		return nil, err
	}

	dsn := BuildDSN(cfg)
	if cfg.Driver == "sqlite" {
		dsn = cfg.SQLitePath
	}

	db, err := ConnectWithRetry(dsn, cfg.ConnectTimeout, opener, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("db connected", zap.String("driver", cfg.Driver))

	if cfg.RunMigrations && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			closeDB(db)
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		logger.Info("db migrations applied", zap.Int("models", len(models)))
	}
	return db, nil
}

var ping = func(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// pingOrClose verifies the pool and closes it when unreachable so retries do not leak pools.
func pingOrClose(db *gorm.DB) error {
	if err := ping(db); err != nil {
		closeDB(db)
		return err
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
