package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Edge struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SourceID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"source_id"`
	Source       *Source        `gorm:"constraint:OnDelete:CASCADE;foreignKey:SourceID;references:ID" json:"source,omitempty"`
	SourceNodeID uuid.UUID      `gorm:"type:uuid;not null" json:"source_node_id"`
	TargetNodeID uuid.UUID      `gorm:"type:uuid;not null" json:"target_node_id"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Edge) TableName() string { return "edge" }
