package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusRecord is the single shift-tracking row an operator owns.
// Lunch timestamps are informational; they never change Online.
type StatusRecord struct {
	ID           uint       `json:"-" gorm:"primaryKey"`
	OperatorID   uuid.UUID  `json:"operador_id" gorm:"column:operador_id;type:uuid;uniqueIndex;not null"`
	Operator     *User      `json:"-" gorm:"foreignKey:OperatorID"`
	Online       bool       `json:"status_online" gorm:"column:status_online;not null"`
	ClockIn      *time.Time `json:"horario_entrada" gorm:"column:horario_entrada"`
	LunchStart   *time.Time `json:"horario_almoco_inicio" gorm:"column:horario_almoco_inicio"`
	LunchEnd     *time.Time `json:"horario_almoco_fim" gorm:"column:horario_almoco_fim"`
	ClockOut     *time.Time `json:"horario_saida" gorm:"column:horario_saida"`
	LastActivity *time.Time `json:"ultima_atividade" gorm:"column:ultima_atividade"`
}

func (StatusRecord) TableName() string {
	return "monitoramento"
}

// DefaultStatusRecord is the synthesized view returned for an operator with no
// stored row. It is never persisted.
func DefaultStatusRecord(operatorID uuid.UUID) *StatusRecord {
	return &StatusRecord{OperatorID: operatorID}
}

// ShiftState is the derived position of a record in the shift state machine
type ShiftState string

const (
	ShiftStateUnknown ShiftState = "unknown"
	ShiftStateOffline ShiftState = "offline"
	ShiftStateOnline  ShiftState = "online"
	ShiftStateOnLunch ShiftState = "almoco"
)

// State derives the shift state from the stored flag and lunch markers.
// A nil record is Unknown.
func (r *StatusRecord) State() ShiftState {
	if r == nil {
		return ShiftStateUnknown
	}
	if !r.Online {
		return ShiftStateOffline
	}
	if r.LunchStart != nil && (r.LunchEnd == nil || r.LunchEnd.Before(*r.LunchStart)) {
		return ShiftStateOnLunch
	}
	return ShiftStateOnline
}

// EventType is a shift event an operator reports
type EventType string

const (
	EventClockIn    EventType = "entrada"
	EventClockOut   EventType = "saida"
	EventLunchStart EventType = "almoco_inicio"
	EventLunchEnd   EventType = "almoco_fim"
	EventPing       EventType = "ping"
)

// AllEventTypes in shift order
var AllEventTypes = []EventType{EventClockIn, EventLunchStart, EventLunchEnd, EventClockOut, EventPing}

func (e EventType) IsValid() bool {
	switch e {
	case EventClockIn, EventClockOut, EventLunchStart, EventLunchEnd, EventPing:
		return true
	}
	return false
}

func (e EventType) String() string {
	return string(e)
}

// StatusChange describes the columns one ledger write touches.
type StatusChange struct {
	Online         *bool
	TimestampField string
	StampActivity  bool
}

// Apply sets the touched fields of r to their post-write values at instant at.
func (c StatusChange) Apply(r *StatusRecord, at time.Time) {
	if c.Online != nil {
		r.Online = *c.Online
	}
	t := at
	switch c.TimestampField {
	case "horario_entrada":
		r.ClockIn = &t
	case "horario_saida":
		r.ClockOut = &t
	case "horario_almoco_inicio":
		r.LunchStart = &t
	case "horario_almoco_fim":
		r.LunchEnd = &t
	}
	if c.StampActivity {
		r.LastActivity = &t
	}
}

// Columns lists the store columns the change writes on conflict.
func (c StatusChange) Columns() []string {
	var cols []string
	if c.Online != nil {
		cols = append(cols, "status_online")
	}
	if c.TimestampField != "" {
		cols = append(cols, c.TimestampField)
	}
	if c.StampActivity {
		cols = append(cols, "ultima_atividade")
	}
	return cols
}

// ChangeFor maps an event to the fields it writes. Unknown events return ErrInvalidEvent.
func ChangeFor(e EventType) (StatusChange, error) {
	online, offline := true, false
	switch e {
	case EventClockIn:
		return StatusChange{Online: &online, TimestampField: "horario_entrada", StampActivity: true}, nil
	case EventClockOut:
		return StatusChange{Online: &offline, TimestampField: "horario_saida", StampActivity: true}, nil
	case EventLunchStart:
		return StatusChange{TimestampField: "horario_almoco_inicio", StampActivity: true}, nil
	case EventLunchEnd:
		return StatusChange{TimestampField: "horario_almoco_fim", StampActivity: true}, nil
	case EventPing:
		return StatusChange{Online: &online, StampActivity: true}, nil
	}
	return StatusChange{}, ErrInvalidEvent
}

// DirectStatusChange is the supervisor-issued override. It touches only the online flag.
func DirectStatusChange(online bool) StatusChange {
	return StatusChange{Online: &online}
}

// OperatorStatus is a supervisor-facing row: the operator identity joined with
// its status record, or defaults when no record exists.
type OperatorStatus struct {
	OperatorID   uuid.UUID  `json:"operador_id" gorm:"column:operador_id"`
	Name         string     `json:"nome" gorm:"column:nome"`
	Email        string     `json:"email" gorm:"column:email"`
	Online       bool       `json:"status_online" gorm:"column:status_online"`
	ClockIn      *time.Time `json:"horario_entrada" gorm:"column:horario_entrada"`
	LunchStart   *time.Time `json:"horario_almoco_inicio" gorm:"column:horario_almoco_inicio"`
	LunchEnd     *time.Time `json:"horario_almoco_fim" gorm:"column:horario_almoco_fim"`
	ClockOut     *time.Time `json:"horario_saida" gorm:"column:horario_saida"`
	LastActivity *time.Time `json:"ultima_atividade" gorm:"column:ultima_atividade"`
}
