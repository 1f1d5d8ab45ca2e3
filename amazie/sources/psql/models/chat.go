package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iamham/amazie/amazie/catalog"
)

const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// ChatMessage is one row of a conversation transcript. Rows are
// append-only: written once per user submission or model reply, never
// updated.
type ChatMessage struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID string            `json:"session_id" gorm:"type:varchar(255);not null;index"`
	ShopperID string            `json:"shopper_id" gorm:"type:varchar(255);not null;index"`
	Role      string            `json:"role" gorm:"type:varchar(50);not null"`
	Text      string            `json:"text" gorm:"type:text"`
	ImageKey  string            `json:"image_key,omitempty" gorm:"type:varchar(512)"`
	Products  []catalog.Product `json:"products,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;index"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
