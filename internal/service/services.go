package service

import (
	"github.com/dom/shift-monitor/internal/auth"
	"github.com/dom/shift-monitor/internal/config"
	"github.com/dom/shift-monitor/internal/metrics"
	"github.com/dom/shift-monitor/internal/repository"
	"github.com/sirupsen/logrus"
)

type Services struct {
	Auth      *AuthService
	Directory *DirectoryService
	Ledger    *LedgerService
}

// NewServices wires every service from the shared repositories and process
// configuration. publisher and m may be nil.
func NewServices(repos *repository.Repositories, cfg *config.Config, publisher StatusPublisher, m *metrics.Metrics, log *logrus.Logger) *Services {
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.SessionTTL)
	sessions := auth.NewSessionStore(cfg.SessionMaxEntries, cfg.SessionTTL)

	return &Services{
		Auth:      NewAuthService(repos.User, codec, sessions, m),
		Directory: NewDirectoryService(repos.User, repos.Status),
		Ledger:    NewLedgerService(repos.User, repos.Status, publisher, m, log),
	}
}
