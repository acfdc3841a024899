package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/internal/plans"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/listing"
)

// Service exposes the template catalog to users and to the back office.
type Service interface {
	List(ctx context.Context, plan enums.Plan, query ListQuery) (listing.Page[TemplateSummaryDTO], error)
	Get(ctx context.Context, plan enums.Plan, id uuid.UUID) (*TemplateDetailDTO, error)
	Create(ctx context.Context, input CreateTemplateInput) (*models.EmailTemplate, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTemplateInput) (*models.EmailTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a template catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("templates repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, plan enums.Plan, query ListQuery) (listing.Page[TemplateSummaryDTO], error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return listing.Page[TemplateSummaryDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list template catalog")
	}

	page := listing.Build(records, query.Params, buildFilters(query), buildLess(query))

	items := make([]TemplateSummaryDTO, 0, len(page.Items))
	for _, record := range page.Items {
		items = append(items, toSummary(record, plans.TierAllowed(plan, record.Tier)))
	}
	return listing.Page[TemplateSummaryDTO]{
		Items:      items,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}, nil
}

// Get returns the full template. Plans that do not unlock the tier get a
// Forbidden error rather than a stripped body: the list view is where the
// locked preview lives.
func (s *service) Get(ctx context.Context, plan enums.Plan, id uuid.UUID) (*TemplateDetailDTO, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !plans.TierAllowed(plan, record.Tier) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("%s templates require the pro plan", record.Tier))
	}
	dto := toDetail(*record, true)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateTemplateInput) (*models.EmailTemplate, error) {
	record := &models.EmailTemplate{
		Name:      input.Name,
		Category:  input.Category,
		Tier:      input.Tier,
		Subject:   input.Subject,
		Body:      input.Body,
		OpenRate:  input.OpenRate,
		ReplyRate: input.ReplyRate,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create template")
	}
	return record, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTemplateInput) (*models.EmailTemplate, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
		record.Name = *input.Name
	}
	if input.Category != nil {
		updates["category"] = *input.Category
		record.Category = *input.Category
	}
	if input.Tier != nil {
		updates["tier"] = *input.Tier
		record.Tier = *input.Tier
	}
	if input.Subject != nil {
		updates["subject"] = *input.Subject
		record.Subject = *input.Subject
	}
	if input.Body != nil {
		updates["body"] = *input.Body
		record.Body = *input.Body
	}
	if input.OpenRate != nil {
		updates["open_rate"] = *input.OpenRate
		record.OpenRate = *input.OpenRate
	}
	if input.ReplyRate != nil {
		updates["reply_rate"] = *input.ReplyRate
		record.ReplyRate = *input.ReplyRate
	}
	if len(updates) == 0 {
		return record, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update template")
	}
	return record, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete template")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	return record, nil
}

func buildFilters(query ListQuery) []listing.Filter[models.EmailTemplate] {
	var filters []listing.Filter[models.EmailTemplate]
	if query.Category != "" {
		filters = append(filters, func(r models.EmailTemplate) bool {
			return strings.EqualFold(r.Category, query.Category)
		})
	}
	if query.Tier != nil {
		filters = append(filters, func(r models.EmailTemplate) bool {
			return r.Tier == *query.Tier
		})
	}
	return filters
}

func buildLess(query ListQuery) listing.Less[models.EmailTemplate] {
	var less listing.Less[models.EmailTemplate]
	switch query.SortBy {
	case "name":
		less = func(a, b models.EmailTemplate) bool { return a.Name < b.Name }
	case "open_rate":
		less = func(a, b models.EmailTemplate) bool { return a.OpenRate < b.OpenRate }
	case "reply_rate":
		less = func(a, b models.EmailTemplate) bool { return a.ReplyRate < b.ReplyRate }
	case "created_at":
		less = func(a, b models.EmailTemplate) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return nil
	}
	if query.SortDesc {
		asc := less
		less = func(a, b models.EmailTemplate) bool { return asc(b, a) }
	}
	return less
}
