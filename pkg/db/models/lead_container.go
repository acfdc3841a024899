package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

// LeadContainer is a pre-built prospect dataset available for download.
type LeadContainer struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"type:text;not null"`
	Industry    string           `gorm:"type:text;not null;index"`
	Location    string           `gorm:"type:text;not null"`
	LeadCount   int              `gorm:"column:lead_count;not null;default:0"`
	Tags        pq.StringArray   `gorm:"column:tags;type:text[];default:ARRAY[]::text[]"`
	Tier        enums.AccessTier `gorm:"column:tier;type:text;not null;default:'free'"`
	DownloadURL string           `gorm:"column:download_url;type:text;not null"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
