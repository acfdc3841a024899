package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

// EmailTemplate is a curated outreach template with observed performance
// metrics. The body is tier-gated; list views expose metadata only.
type EmailTemplate struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string           `gorm:"type:text;not null"`
	Category  string           `gorm:"type:text;not null;index"`
	Tier      enums.AccessTier `gorm:"column:tier;type:text;not null;default:'free'"`
	Subject   string           `gorm:"type:text;not null"`
	Body      string           `gorm:"type:text;not null"`
	OpenRate  float64          `gorm:"column:open_rate;not null;default:0"`
	ReplyRate float64          `gorm:"column:reply_rate;not null;default:0"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
