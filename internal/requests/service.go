package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/internal/plans"
	"github.com/leadspark-io/leadspark-backend/internal/usage"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type quotaConsumer interface {
	Consume(ctx context.Context, userID uuid.UUID, plan enums.Plan, resource enums.Resource) (*usage.ResourceUsage, error)
}

// Service defines the request lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Request, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filters ListFilters) ([]models.Request, error)
	ListAll(ctx context.Context, filters ListFilters) ([]models.Request, error)
	UpdateOwn(ctx context.Context, input UpdateOwnInput) (*models.Request, error)
	DeleteOwn(ctx context.Context, requestID, userID uuid.UUID) error
	Transition(ctx context.Context, input TransitionInput) (*models.Request, error)
	SetDelivery(ctx context.Context, input DeliveryInput) (*models.Request, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	quota quotaConsumer
	now   func() time.Time
}

// ServiceParams groups dependencies for the request service.
type ServiceParams struct {
	Repo  Repository
	Tx    txRunner
	Quota quotaConsumer
	Now   func() time.Time
}

// NewService builds a request service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Quota == nil {
		return nil, fmt.Errorf("quota consumer required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:  params.Repo,
		tx:    params.Tx,
		quota: params.Quota,
		now:   now,
	}, nil
}

// Create persists a new request in the pending stage. Prospect orders are
// pro-only and burn one custom-prospects credit before the row is written.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Request, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request kind")
	}
	if input.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject required")
	}

	if input.Kind == enums.RequestKindProspectOrder {
		if !plans.HasFeature(input.Plan, enums.FeatureCustomProspects) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "custom prospects require the pro plan")
		}
		if _, err := s.quota.Consume(ctx, input.UserID, input.Plan, enums.ResourceCustomProspects); err != nil {
			return nil, err
		}
	}

	record := &models.Request{
		UserID:  input.UserID,
		Kind:    input.Kind,
		Status:  enums.RequestStatusPending,
		Subject: input.Subject,
		Payload: input.Payload,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}
	return record, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, filters ListFilters) ([]models.Request, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	records, err := s.repo.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return records, nil
}

func (s *service) ListAll(ctx context.Context, filters ListFilters) ([]models.Request, error) {
	records, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return records, nil
}

// UpdateOwn lets the owning user edit subject and payload while the
// request is still pending. Status never changes here.
func (s *service) UpdateOwn(ctx context.Context, input UpdateOwnInput) (*models.Request, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var updated *models.Request
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := s.loadOwned(ctx, repo, input.RequestID, input.UserID)
		if err != nil {
			return err
		}
		if record.Status != enums.RequestStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request can only be edited while pending")
		}

		updates := map[string]any{}
		if input.Subject != nil {
			if *input.Subject == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "subject cannot be empty")
			}
			updates["subject"] = *input.Subject
			record.Subject = *input.Subject
		}
		if input.Payload != nil {
			updates["payload"] = input.Payload
			record.Payload = input.Payload
		}
		if len(updates) == 0 {
			updated = record
			return nil
		}

		if err := repo.Update(ctx, record.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request")
		}
		record.UpdatedAt = s.now()
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOwn removes the owner's request while it is still pending.
func (s *service) DeleteOwn(ctx context.Context, requestID, userID uuid.UUID) error {
	if requestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := s.loadOwned(ctx, repo, requestID, userID)
		if err != nil {
			return err
		}
		if record.Status != enums.RequestStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request can only be deleted while pending")
		}
		if err := repo.Delete(ctx, record.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete request")
		}
		return nil
	})
}

// Transition moves a request to a new pipeline stage. Support tickets may
// jump to any column on the board; orders advance one stage at a time.
// processed_at is stamped the first time the row leaves pending and
// delivered_at the first time it reaches a delivery stage.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Request, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	var updated *models.Request
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := s.load(ctx, repo, input.RequestID)
		if err != nil {
			return err
		}
		if !input.Status.ValidFor(record.Kind) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("status %q is not part of the %s pipeline", input.Status, record.Kind))
		}
		if record.Status == input.Status {
			updated = record
			return nil
		}
		if record.Kind.IsOrder() {
			current := record.Status.PipelineIndex(record.Kind)
			next := input.Status.PipelineIndex(record.Kind)
			if next != current+1 {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("order cannot move from %q to %q", record.Status, input.Status))
			}
		}

		now := s.now()
		updates := map[string]any{"status": input.Status}
		if record.Status == enums.RequestStatusPending && record.ProcessedAt == nil {
			updates["processed_at"] = now
			record.ProcessedAt = &now
		}
		if input.Status.IsDelivery() && record.DeliveredAt == nil {
			updates["delivered_at"] = now
			record.DeliveredAt = &now
		}

		if err := repo.Update(ctx, record.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}
		record.Status = input.Status
		record.UpdatedAt = now
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetDelivery attaches the delivery artifact link to a request.
func (s *service) SetDelivery(ctx context.Context, input DeliveryInput) (*models.Request, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.DeliveryLink == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery link required")
	}

	var updated *models.Request
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := s.load(ctx, repo, input.RequestID)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, record.ID, map[string]any{"delivery_link": input.DeliveryLink}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery link")
		}
		link := input.DeliveryLink
		record.DeliveryLink = &link
		record.UpdatedAt = s.now()
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Request, error) {
	record, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return record, nil
}

func (s *service) loadOwned(ctx context.Context, repo Repository, id, userID uuid.UUID) (*models.Request, error) {
	record, err := s.load(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to user")
	}
	return record, nil
}
