package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/internal/plans"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/listing"
)

// Service exposes the lead catalog to users and to the back office.
type Service interface {
	List(ctx context.Context, plan enums.Plan, query ListQuery) (listing.Page[LeadDTO], error)
	Download(ctx context.Context, plan enums.Plan, id uuid.UUID) (string, error)
	Create(ctx context.Context, input CreateLeadInput) (*models.LeadContainer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateLeadInput) (*models.LeadContainer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a lead catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	return &service{repo: repo}, nil
}

// List applies the caller's filters and pagination over the full catalog.
// Every entry is visible regardless of plan; locked tiers just omit the
// download link.
func (s *service) List(ctx context.Context, plan enums.Plan, query ListQuery) (listing.Page[LeadDTO], error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return listing.Page[LeadDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lead catalog")
	}

	page := listing.Build(records, query.Params, buildFilters(query), buildLess(query))

	items := make([]LeadDTO, 0, len(page.Items))
	for _, record := range page.Items {
		items = append(items, toDTO(record, plans.TierAllowed(plan, record.Tier)))
	}
	return listing.Page[LeadDTO]{
		Items:      items,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}, nil
}

// Download returns the dataset URL when the caller's plan unlocks the tier.
func (s *service) Download(ctx context.Context, plan enums.Plan, id uuid.UUID) (string, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if !plans.TierAllowed(plan, record.Tier) {
		return "", pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("%s datasets require the pro plan", record.Tier))
	}
	return record.DownloadURL, nil
}

func (s *service) Create(ctx context.Context, input CreateLeadInput) (*models.LeadContainer, error) {
	record := &models.LeadContainer{
		Name:        input.Name,
		Industry:    input.Industry,
		Location:    input.Location,
		LeadCount:   input.LeadCount,
		Tags:        pq.StringArray(input.Tags),
		Tier:        input.Tier,
		DownloadURL: input.DownloadURL,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create lead container")
	}
	return record, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateLeadInput) (*models.LeadContainer, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
		record.Name = *input.Name
	}
	if input.Industry != nil {
		updates["industry"] = *input.Industry
		record.Industry = *input.Industry
	}
	if input.Location != nil {
		updates["location"] = *input.Location
		record.Location = *input.Location
	}
	if input.LeadCount != nil {
		updates["lead_count"] = *input.LeadCount
		record.LeadCount = *input.LeadCount
	}
	if input.Tags != nil {
		updates["tags"] = pq.StringArray(input.Tags)
		record.Tags = pq.StringArray(input.Tags)
	}
	if input.Tier != nil {
		updates["tier"] = *input.Tier
		record.Tier = *input.Tier
	}
	if input.DownloadURL != nil {
		updates["download_url"] = *input.DownloadURL
		record.DownloadURL = *input.DownloadURL
	}
	if len(updates) == 0 {
		return record, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update lead container")
	}
	return record, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete lead container")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.LeadContainer, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead container not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lead container")
	}
	return record, nil
}

func buildFilters(query ListQuery) []listing.Filter[models.LeadContainer] {
	var filters []listing.Filter[models.LeadContainer]
	if query.Industry != "" {
		filters = append(filters, func(r models.LeadContainer) bool {
			return strings.EqualFold(r.Industry, query.Industry)
		})
	}
	if query.Location != "" {
		filters = append(filters, func(r models.LeadContainer) bool {
			return strings.EqualFold(r.Location, query.Location)
		})
	}
	if query.Tier != nil {
		filters = append(filters, func(r models.LeadContainer) bool {
			return r.Tier == *query.Tier
		})
	}
	if query.Tag != "" {
		filters = append(filters, func(r models.LeadContainer) bool {
			for _, tag := range r.Tags {
				if strings.EqualFold(tag, query.Tag) {
					return true
				}
			}
			return false
		})
	}
	return filters
}

func buildLess(query ListQuery) listing.Less[models.LeadContainer] {
	var less listing.Less[models.LeadContainer]
	switch query.SortBy {
	case "name":
		less = func(a, b models.LeadContainer) bool { return a.Name < b.Name }
	case "lead_count":
		less = func(a, b models.LeadContainer) bool { return a.LeadCount < b.LeadCount }
	case "created_at":
		less = func(a, b models.LeadContainer) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return nil
	}
	if query.SortDesc {
		asc := less
		less = func(a, b models.LeadContainer) bool { return asc(b, a) }
	}
	return less
}
