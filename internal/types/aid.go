package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Aid is an AI-generated study artifact derived from a node. One row per
// (node, kind): the composite unique index is what makes the cache lookup
// deterministic and the fetch-or-create path race-safe.
type Aid struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	NodeID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_aid_node_kind" json:"node_id"`
	Node        *Node          `gorm:"constraint:OnDelete:CASCADE;foreignKey:NodeID;references:ID" json:"node,omitempty"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind        string         `gorm:"column:kind;not null;uniqueIndex:idx_aid_node_kind" json:"kind"` // summary|module|flashcards|study_plan
	Content     string         `gorm:"column:content;type:text;not null" json:"content"`
	GeneratedAt time.Time      `gorm:"column:generated_at;not null" json:"generated_at"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Aid) TableName() string { return "aid" }
