package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	WeaveJobStatusQueued    = "queued"
	WeaveJobStatusRunning   = "running"
	WeaveJobStatusSucceeded = "succeeded"
	WeaveJobStatusFailed    = "failed"
)

// WeaveJob is the durable queue record for one mind-map generation job.
// The ingestion dispatcher enqueues it in the same transaction that
// creates the Source; the weaver worker claims and drives it.
type WeaveJob struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SourceID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"source_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	RawText     string         `gorm:"column:raw_text;type:text;not null" json:"raw_text"`
	Status      string         `gorm:"column:status;not null;index" json:"status"` // queued|running|succeeded|failed
	Attempts    int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Error       string         `gorm:"column:error" json:"error,omitempty"`
	LastErrorAt *time.Time     `gorm:"column:last_error_at" json:"last_error_at,omitempty"`
	LockedAt    *time.Time     `gorm:"column:locked_at;index" json:"locked_at,omitempty"`
	HeartbeatAt *time.Time     `gorm:"column:heartbeat_at;index" json:"heartbeat_at,omitempty"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt   time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WeaveJob) TableName() string { return "weave_job" }
