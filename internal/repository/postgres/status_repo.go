package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type statusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *statusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) Upsert(ctx context.Context, operatorID uuid.UUID, change domain.StatusChange, at time.Time) (*domain.StatusRecord, error) {
	record := &domain.StatusRecord{OperatorID: operatorID}
	change.Apply(record, at)

	cols := change.Columns()
	conflict := clause.OnConflict{Columns: []clause.Column{{Name: "operador_id"}}}
	if len(cols) == 0 {
		conflict.DoNothing = true
	} else {
		conflict.DoUpdates = clause.AssignmentColumns(cols)
	}

	err := r.db.WithContext(ctx).
		Clauses(conflict, clause.Returning{}).
		Create(record).Error
	if err != nil {
		return nil, domain.Upstream("monitoramento.Upsert", err)
	}

	// DO NOTHING returns no row; read back what is stored.
	if conflict.DoNothing {
		return r.GetByOperatorID(ctx, operatorID)
	}
	return record, nil
}

func (r *statusRepository) Init(ctx context.Context, operatorID uuid.UUID) error {
	record := domain.DefaultStatusRecord(operatorID)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "operador_id"}},
			DoNothing: true,
		}).
		Create(record).Error
	if err != nil {
		return domain.Upstream("monitoramento.Init", err)
	}
	return nil
}

func (r *statusRepository) GetByOperatorID(ctx context.Context, operatorID uuid.UUID) (*domain.StatusRecord, error) {
	var record domain.StatusRecord
	err := r.db.WithContext(ctx).First(&record, "operador_id = ?", operatorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStatusNotFound
		}
		return nil, domain.Upstream("monitoramento.GetByOperatorID", err)
	}
	return &record, nil
}

func (r *statusRepository) ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]*domain.OperatorStatus, error) {
	var statuses []*domain.OperatorStatus
	err := r.db.WithContext(ctx).
		Table("users").
		Select(`users.id AS operador_id, users.nome, users.email,
			COALESCE(m.status_online, false) AS status_online,
			m.horario_entrada, m.horario_almoco_inicio, m.horario_almoco_fim,
			m.horario_saida, m.ultima_atividade`).
		Joins("LEFT JOIN monitoramento m ON m.operador_id = users.id").
		Where("users.supervisor_id = ? AND users.nivel_acesso = ?", supervisorID, domain.AccessLevelOperator).
		Order("users.nome ASC").
		Scan(&statuses).Error
	if err != nil {
		return nil, domain.Upstream("monitoramento.ListBySupervisor", err)
	}
	return statuses, nil
}
