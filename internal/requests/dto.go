package requests

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
)

// SupportTicketPayload carries the free-form body of a support ticket.
type SupportTicketPayload struct {
	Message  string `json:"message" validate:"required,max=5000"`
	Category string `json:"category" validate:"omitempty,max=120"`
}

// ProspectOrderPayload describes a customized prospect-list order.
type ProspectOrderPayload struct {
	CompanyName    string `json:"company_name" validate:"required,max=200"`
	ContactEmail   string `json:"contact_email" validate:"required,email"`
	RequestedCount int    `json:"requested_count" validate:"required,min=1,max=10000"`
	Location       string `json:"location" validate:"omitempty,max=200"`
	Industry       string `json:"industry" validate:"omitempty,max=120"`
	Notes          string `json:"notes" validate:"omitempty,max=2000"`
}

// EmailAccountOrderPayload describes an email-sending-account order.
type EmailAccountOrderPayload struct {
	Domain       string `json:"domain" validate:"required,fqdn"`
	AccountCount int    `json:"account_count" validate:"required,min=1,max=100"`
	Provider     string `json:"provider" validate:"omitempty,max=120"`
	Notes        string `json:"notes" validate:"omitempty,max=2000"`
}

// PayloadPrototype returns the struct to decode a kind's payload into.
// Controllers validate the decoded value before it reaches the service.
func PayloadPrototype(kind enums.RequestKind) (any, error) {
	switch kind {
	case enums.RequestKindSupportTicket:
		return &SupportTicketPayload{}, nil
	case enums.RequestKindProspectOrder:
		return &ProspectOrderPayload{}, nil
	case enums.RequestKindEmailAccountOrder:
		return &EmailAccountOrderPayload{}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown request kind")
	}
}

// CreateInput carries a new request from an authenticated owner.
type CreateInput struct {
	UserID  uuid.UUID
	Plan    enums.Plan
	Kind    enums.RequestKind
	Subject string
	Payload json.RawMessage
}

// UpdateOwnInput carries a pending-state edit by the owning user.
type UpdateOwnInput struct {
	RequestID uuid.UUID
	UserID    uuid.UUID
	Subject   *string
	Payload   json.RawMessage
}

// TransitionInput moves a request to a new pipeline stage. Operator only.
type TransitionInput struct {
	RequestID uuid.UUID
	Status    enums.RequestStatus
}

// DeliveryInput attaches the delivery artifact to a request. Operator only.
type DeliveryInput struct {
	RequestID    uuid.UUID
	DeliveryLink string
}

// ListFilters narrows request listings.
type ListFilters struct {
	Kind   *enums.RequestKind
	Status *enums.RequestStatus
}

// ToDTO converts a persisted request into its wire shape.
func ToDTO(record models.Request) RequestDTO {
	return RequestDTO{
		ID:           record.ID,
		UserID:       record.UserID,
		Kind:         record.Kind,
		Status:       record.Status,
		Subject:      record.Subject,
		Payload:      record.Payload,
		DeliveryLink: record.DeliveryLink,
		ProcessedAt:  record.ProcessedAt,
		DeliveredAt:  record.DeliveredAt,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

// RequestDTO is the wire shape for a request row.
type RequestDTO struct {
	ID           uuid.UUID           `json:"id"`
	UserID       uuid.UUID           `json:"user_id"`
	Kind         enums.RequestKind   `json:"kind"`
	Status       enums.RequestStatus `json:"status"`
	Subject      string              `json:"subject"`
	Payload      json.RawMessage     `json:"payload,omitempty"`
	DeliveryLink *string             `json:"delivery_link,omitempty"`
	ProcessedAt  *time.Time          `json:"processed_at,omitempty"`
	DeliveredAt  *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
