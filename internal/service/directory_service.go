package service

import (
	"context"
	"strings"
	"time"

	"github.com/dom/shift-monitor/internal/auth"
	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/repository"
	"github.com/google/uuid"
)

// DirectoryService owns user registration and the supervisor roster.
type DirectoryService struct {
	userRepo   repository.UserRepository
	statusRepo repository.StatusRepository
}

func NewDirectoryService(userRepo repository.UserRepository, statusRepo repository.StatusRepository) *DirectoryService {
	return &DirectoryService{
		userRepo:   userRepo,
		statusRepo: statusRepo,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterSupervisor is the self-service registration path.
func (s *DirectoryService) RegisterSupervisor(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.register(ctx, input, domain.AccessLevelSupervisor, nil)
}

// RegisterOperator creates an operator owned by supervisorID and initializes
// its offline status record.
func (s *DirectoryService) RegisterOperator(ctx context.Context, supervisorID uuid.UUID, input RegisterInput) (*domain.User, error) {
	user, err := s.register(ctx, input, domain.AccessLevelOperator, &supervisorID)
	if err != nil {
		return nil, err
	}

	if err := s.statusRepo.Init(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *DirectoryService) register(ctx context.Context, input RegisterInput, level domain.AccessLevel, supervisorID *uuid.UUID) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	// Checked before insert. Two concurrent registrations of one email can
	// still race to the unique index, which also reports ErrDuplicateEmail.
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	digest, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		AccessLevel:  level,
		SupervisorID: supervisorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListOperators returns the operators supervised by supervisorID with their current online flag.
func (s *DirectoryService) ListOperators(ctx context.Context, supervisorID uuid.UUID) ([]*domain.OperatorSummary, error) {
	operators, err := s.userRepo.ListOperators(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	if operators == nil {
		operators = []*domain.OperatorSummary{}
	}
	return operators, nil
}

// GetSupervisedOperator returns the operator only when supervisorID owns it.
// Absent and foreign operators are both ErrOperatorNotFound.
func (s *DirectoryService) GetSupervisedOperator(ctx context.Context, supervisorID, operatorID uuid.UUID) (*domain.User, error) {
	return supervisedOperator(ctx, s.userRepo, supervisorID, operatorID)
}

func supervisedOperator(ctx context.Context, users repository.UserRepository, supervisorID, operatorID uuid.UUID) (*domain.User, error) {
	operator, err := users.GetByID(ctx, operatorID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, err
	}
	if !operator.IsSupervisedBy(supervisorID) {
		return nil, domain.ErrOperatorNotFound
	}
	return operator, nil
}
