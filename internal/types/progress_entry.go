package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProgressStatusInProgress = "in_progress"
	ProgressStatusCompleted  = "completed"
)

// ProgressEntry is an append-only study event log. Entries are never
// mutated or deleted; a node's current status is the status of its most
// recently logged entry.
type ProgressEntry struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	// Seq is a bigserial stamped on insert. It breaks logged_at ties by
	// log order, which wall-clock timestamps alone cannot guarantee.
	Seq              int64          `gorm:"column:seq;autoIncrement;not null;index" json:"-"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	NodeID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"node_id"`
	TimeSpentMinutes int            `gorm:"column:time_spent_minutes;not null" json:"time_spent_minutes"`
	Status           string         `gorm:"column:status;not null" json:"status"` // in_progress|completed
	LoggedAt         time.Time      `gorm:"column:logged_at;not null;index" json:"logged_at"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProgressEntry) TableName() string { return "progress_entry" }
