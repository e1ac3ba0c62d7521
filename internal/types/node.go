package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Node struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SourceID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"source_id"`
	Source      *Source        `gorm:"constraint:OnDelete:CASCADE;foreignKey:SourceID;references:ID" json:"source,omitempty"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Summary     string         `gorm:"column:summary" json:"summary"`
	StatusBadge string         `gorm:"column:status_badge" json:"status_badge,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Node) TableName() string { return "node" }
