package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

// UsageRecord counts metered consumption for one (user, resource) pair
// within the current counting window. Rows are created lazily on first
// use and survive until the account is deleted.
type UsageRecord struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_usage_user_resource"`
	Resource    enums.Resource `gorm:"column:resource;type:text;not null;uniqueIndex:idx_usage_user_resource"`
	Count       int            `gorm:"column:count;not null;default:0"`
	PeriodStart time.Time      `gorm:"column:period_start;type:timestamptz;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
