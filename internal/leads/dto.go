package leads

import (
	"time"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	"github.com/leadspark-io/leadspark-backend/pkg/listing"
)

// LeadDTO is the catalog view of a lead container. The download link only
// appears when the caller's plan unlocks the container's tier.
type LeadDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Industry    string           `json:"industry"`
	Location    string           `json:"location"`
	LeadCount   int              `json:"lead_count"`
	Tags        []string         `json:"tags"`
	Tier        enums.AccessTier `json:"tier"`
	Locked      bool             `json:"locked"`
	DownloadURL string           `json:"download_url,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateLeadInput carries a new catalog entry from the back office.
type CreateLeadInput struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Industry    string           `json:"industry" validate:"required,max=120"`
	Location    string           `json:"location" validate:"required,max=200"`
	LeadCount   int              `json:"lead_count" validate:"required,min=1"`
	Tags        []string         `json:"tags" validate:"omitempty,dive,max=60"`
	Tier        enums.AccessTier `json:"tier" validate:"required,oneof=free pro premium"`
	DownloadURL string           `json:"download_url" validate:"required,url"`
}

// UpdateLeadInput carries a partial catalog edit from the back office.
type UpdateLeadInput struct {
	Name        *string           `json:"name" validate:"omitempty,max=200"`
	Industry    *string           `json:"industry" validate:"omitempty,max=120"`
	Location    *string           `json:"location" validate:"omitempty,max=200"`
	LeadCount   *int              `json:"lead_count" validate:"omitempty,min=1"`
	Tags        []string          `json:"tags" validate:"omitempty,dive,max=60"`
	Tier        *enums.AccessTier `json:"tier" validate:"omitempty,oneof=free pro premium"`
	DownloadURL *string           `json:"download_url" validate:"omitempty,url"`
}

// ListQuery narrows and orders the catalog listing.
type ListQuery struct {
	Industry string
	Location string
	Tier     *enums.AccessTier
	Tag      string
	SortBy   string // name | lead_count | created_at
	SortDesc bool
	Params   listing.Params
}

func toDTO(record models.LeadContainer, unlocked bool) LeadDTO {
	dto := LeadDTO{
		ID:        record.ID,
		Name:      record.Name,
		Industry:  record.Industry,
		Location:  record.Location,
		LeadCount: record.LeadCount,
		Tags:      append([]string{}, record.Tags...),
		Tier:      record.Tier,
		Locked:    !unlocked,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if unlocked {
		dto.DownloadURL = record.DownloadURL
	}
	return dto
}
