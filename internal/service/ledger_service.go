package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/metrics"
	"github.com/dom/shift-monitor/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StatusPublisher fans a committed status record out to the owning supervisor.
type StatusPublisher interface {
	PublishStatus(supervisorID uuid.UUID, record *domain.StatusRecord)
}

// LedgerService applies shift events to the one-row-per-operator status record.
type LedgerService struct {
	userRepo   repository.UserRepository
	statusRepo repository.StatusRepository
	publisher  StatusPublisher
	metrics    *metrics.Metrics
	log        *logrus.Logger
	now        func() time.Time
}

func NewLedgerService(userRepo repository.UserRepository, statusRepo repository.StatusRepository, publisher StatusPublisher, m *metrics.Metrics, log *logrus.Logger) *LedgerService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LedgerService{
		userRepo:   userRepo,
		statusRepo: statusRepo,
		publisher:  publisher,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *LedgerService) SetClock(now func() time.Time) {
	s.now = now
}

// StatusView is an operator's status as read. Stored is false when the record
// was synthesized because none exists.
type StatusView struct {
	Record *domain.StatusRecord
	Stored bool
}

// RecordEvent applies an operator's own shift event and returns the record as
// committed together with the event instant.
func (s *LedgerService) RecordEvent(ctx context.Context, operatorID uuid.UUID, event domain.EventType) (*domain.StatusRecord, time.Time, error) {
	change, err := domain.ChangeFor(event)
	if err != nil {
		return nil, time.Time{}, err
	}

	at := s.timestamp()
	record, err := s.statusRepo.Upsert(ctx, operatorID, change, at)
	if err != nil {
		return nil, time.Time{}, err
	}
	s.metrics.StatusEvent(event.String())

	if s.publisher != nil {
		if operator, err := s.userRepo.GetByID(ctx, operatorID); err != nil {
			s.log.WithError(err).WithField("operador_id", operatorID).Warn("status feed: operator lookup failed")
		} else if operator.SupervisorID != nil {
			s.publisher.PublishStatus(*operator.SupervisorID, record)
		}
	}
	return record, at, nil
}

// SetStatus is the supervisor override of the online flag. It leaves every
// timestamp, including last activity, untouched.
func (s *LedgerService) SetStatus(ctx context.Context, supervisorID, operatorID uuid.UUID, online bool) (*domain.StatusRecord, error) {
	if _, err := supervisedOperator(ctx, s.userRepo, supervisorID, operatorID); err != nil {
		return nil, err
	}

	record, err := s.statusRepo.Upsert(ctx, operatorID, domain.DirectStatusChange(online), s.timestamp())
	if err != nil {
		return nil, err
	}
	s.metrics.StatusEvent("status_direto")

	if s.publisher != nil {
		s.publisher.PublishStatus(supervisorID, record)
	}
	return record, nil
}

// GetStatus returns the stored record for a supervised operator, or a
// synthesized offline record when none exists.
func (s *LedgerService) GetStatus(ctx context.Context, supervisorID, operatorID uuid.UUID) (*StatusView, error) {
	if _, err := supervisedOperator(ctx, s.userRepo, supervisorID, operatorID); err != nil {
		return nil, err
	}

	record, err := s.statusRepo.GetByOperatorID(ctx, operatorID)
	if err != nil {
		if isNotFound(err) {
			return &StatusView{Record: domain.DefaultStatusRecord(operatorID)}, nil
		}
		return nil, err
	}
	return &StatusView{Record: record, Stored: true}, nil
}

// ListStatuses returns every operator under supervisorID with its status.
func (s *LedgerService) ListStatuses(ctx context.Context, supervisorID uuid.UUID) ([]*domain.OperatorStatus, error) {
	statuses, err := s.statusRepo.ListBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	if statuses == nil {
		statuses = []*domain.OperatorStatus{}
	}
	return statuses, nil
}

// timestamp is truncated to the store's microsecond precision so the instant
// returned to callers equals the one persisted.
func (s *LedgerService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
