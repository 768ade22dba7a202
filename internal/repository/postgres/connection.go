package postgres

import (
	"context"
	"time"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the service owns, in migration order.
var Models = []interface{}{
	&domain.User{},
	&domain.StatusRecord{},
}

// NewConnection opens a lazy connection pool; an unreachable server is
// reported by the first query, not here.
func NewConnection(databaseURL string, log *logrus.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(log.GetLevel()),
		IgnoreRecordNotFoundError: true,
	})

	return gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:               gormLogger,
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
}

// Migrate creates or updates every table in Models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return domain.Upstream("store.Migrate", err)
	}
	return nil
}

func gormLogLevel(level logrus.Level) logger.LogLevel {
	switch {
	case level >= logrus.DebugLevel:
		return logger.Info
	case level >= logrus.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}

type store struct {
	db *gorm.DB
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return domain.Upstream("store.Ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return domain.Upstream("store.Ping", err)
	}
	return nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:   NewUserRepository(db),
		Status: NewStatusRepository(db),
		Store:  &store{db: db},
	}
}
