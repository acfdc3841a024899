package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

// Request is a user-submitted, operator-fulfilled unit of work: a support
// ticket, a customized-prospects order, or an email-sending-account order.
// Kind-specific fields live in the payload document and are validated at
// the API boundary before they reach this row.
type Request struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Kind         enums.RequestKind   `gorm:"column:kind;type:text;not null;index"`
	Status       enums.RequestStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Subject      string              `gorm:"column:subject;type:text;not null"`
	Payload      json.RawMessage     `gorm:"column:payload;type:jsonb"`
	DeliveryLink *string             `gorm:"column:delivery_link;type:text"`
	ProcessedAt  *time.Time          `gorm:"column:processed_at;type:timestamptz"`
	DeliveredAt  *time.Time          `gorm:"column:delivered_at;type:timestamptz"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
