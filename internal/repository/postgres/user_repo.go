package postgres

import (
	"context"
	"errors"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		return domain.Upstream("users.Create", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, userLookupError("users.GetByID", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, userLookupError("users.GetByEmail", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, domain.Upstream("users.ExistsByEmail", err)
	}
	return count > 0, nil
}

func (r *userRepository) ListOperators(ctx context.Context, supervisorID uuid.UUID) ([]*domain.OperatorSummary, error) {
	var operators []*domain.OperatorSummary
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.nome AS name, users.email, users.nivel_acesso AS access_level, COALESCE(m.status_online, false) AS online").
		Joins("LEFT JOIN monitoramento m ON m.operador_id = users.id").
		Where("users.supervisor_id = ? AND users.nivel_acesso = ?", supervisorID, domain.AccessLevelOperator).
		Order("users.nome ASC").
		Scan(&operators).Error
	if err != nil {
		return nil, domain.Upstream("users.ListOperators", err)
	}
	return operators, nil
}

func userLookupError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return domain.Upstream(op, err)
}
