package repository

import (
	"context"
	"time"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/google/uuid"
)

// Repositories return errors matching a domain kind: ErrNotFound for absent
// rows and ErrUpstream for everything the store reports.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListOperators(ctx context.Context, supervisorID uuid.UUID) ([]*domain.OperatorSummary, error)
}

type StatusRepository interface {
	// Upsert applies change to the operator's row in one conflict-resolving
	// statement, creating the row if absent, and returns the row as stored.
	Upsert(ctx context.Context, operatorID uuid.UUID, change domain.StatusChange, at time.Time) (*domain.StatusRecord, error)
	// Init creates an offline row with every timestamp null. An existing row is left untouched.
	Init(ctx context.Context, operatorID uuid.UUID) error
	GetByOperatorID(ctx context.Context, operatorID uuid.UUID) (*domain.StatusRecord, error)
	ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]*domain.OperatorStatus, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Repositories struct {
	User   UserRepository
	Status StatusRepository
	Store  HealthChecker
}
