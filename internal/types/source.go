package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Source lifecycle states. The ingestion dispatcher writes the initial
// queued status; every later transition belongs to the weaver worker.
const (
	SourceStatusQueued    = "queued"
	SourceStatusWeaving   = "weaving_mindmap"
	SourceStatusCompleted = "completed"
	SourceStatusFailed    = "failed"
)

const (
	SourceTypeURL     = "url"
	SourceTypeYoutube = "youtube"
	SourceTypeFile    = "file"
)

type Source struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
	Type           string         `gorm:"column:type;not null" json:"type"` // url|youtube|file
	Origin         string         `gorm:"column:origin;not null" json:"origin"`
	Status         string         `gorm:"column:status;not null;index" json:"status"` // queued|weaving_mindmap|completed|failed
	Error          string         `gorm:"column:error" json:"error,omitempty"`
	MindmapWovenAt *time.Time     `gorm:"column:mindmap_woven_at" json:"mindmap_woven_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Source) TableName() string { return "source" }
