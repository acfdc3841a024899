package templates

import (
	"time"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	"github.com/leadspark-io/leadspark-backend/pkg/listing"
)

// TemplateSummaryDTO is the list view: metadata and performance numbers,
// never the body.
type TemplateSummaryDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Tier      enums.AccessTier `json:"tier"`
	Locked    bool             `json:"locked"`
	OpenRate  float64          `json:"open_rate"`
	ReplyRate float64          `json:"reply_rate"`
	CreatedAt time.Time        `json:"created_at"`
}

// TemplateDetailDTO is the single-template view. Subject and body are
// present only when the caller's plan unlocks the tier.
type TemplateDetailDTO struct {
	TemplateSummaryDTO
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTemplateInput carries a new template from the back office.
type CreateTemplateInput struct {
	Name      string           `json:"name" validate:"required,max=200"`
	Category  string           `json:"category" validate:"required,max=120"`
	Tier      enums.AccessTier `json:"tier" validate:"required,oneof=free pro premium"`
	Subject   string           `json:"subject" validate:"required,max=300"`
	Body      string           `json:"body" validate:"required"`
	OpenRate  float64          `json:"open_rate" validate:"min=0,max=100"`
	ReplyRate float64          `json:"reply_rate" validate:"min=0,max=100"`
}

// UpdateTemplateInput carries a partial template edit from the back office.
type UpdateTemplateInput struct {
	Name      *string           `json:"name" validate:"omitempty,max=200"`
	Category  *string           `json:"category" validate:"omitempty,max=120"`
	Tier      *enums.AccessTier `json:"tier" validate:"omitempty,oneof=free pro premium"`
	Subject   *string           `json:"subject" validate:"omitempty,max=300"`
	Body      *string           `json:"body" validate:"omitempty"`
	OpenRate  *float64          `json:"open_rate" validate:"omitempty,min=0,max=100"`
	ReplyRate *float64          `json:"reply_rate" validate:"omitempty,min=0,max=100"`
}

// ListQuery narrows and orders the template listing.
type ListQuery struct {
	Category string
	Tier     *enums.AccessTier
	SortBy   string // name | open_rate | reply_rate | created_at
	SortDesc bool
	Params   listing.Params
}

func toSummary(record models.EmailTemplate, unlocked bool) TemplateSummaryDTO {
	return TemplateSummaryDTO{
		ID:        record.ID,
		Name:      record.Name,
		Category:  record.Category,
		Tier:      record.Tier,
		Locked:    !unlocked,
		OpenRate:  record.OpenRate,
		ReplyRate: record.ReplyRate,
		CreatedAt: record.CreatedAt,
	}
}

func toDetail(record models.EmailTemplate, unlocked bool) TemplateDetailDTO {
	dto := TemplateDetailDTO{
		TemplateSummaryDTO: toSummary(record, unlocked),
		UpdatedAt:          record.UpdatedAt,
	}
	if unlocked {
		dto.Subject = record.Subject
		dto.Body = record.Body
	}
	return dto
}
