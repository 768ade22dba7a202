package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string      `json:"nome" gorm:"column:nome;not null"`
	Email        string      `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string      `json:"-" gorm:"column:senha;not null"`
	AccessLevel  AccessLevel `json:"nivel_acesso" gorm:"column:nivel_acesso;type:varchar(16);not null;index"`
	SupervisorID *uuid.UUID  `json:"supervisor_id,omitempty" gorm:"type:uuid;index"`
	Supervisor   *User       `json:"-" gorm:"foreignKey:SupervisorID"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// IsSupervisedBy reports whether u is an operator owned by supervisorID.
func (u *User) IsSupervisedBy(supervisorID uuid.UUID) bool {
	return u.AccessLevel == AccessLevelOperator && u.SupervisorID != nil && *u.SupervisorID == supervisorID
}

// OperatorSummary is one roster entry joined with the operator's current online flag.
type OperatorSummary struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"nome"`
	Email       string      `json:"email"`
	AccessLevel AccessLevel `json:"nivel_acesso"`
	Online      bool        `json:"online"`
}
