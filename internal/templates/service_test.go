package templates

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/listing"
)

type stubTemplatesRepo struct {
	records []models.EmailTemplate
	updates map[string]any
}

func (s *stubTemplatesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTemplatesRepo) Create(ctx context.Context, record *models.EmailTemplate) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *stubTemplatesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			copied := s.records[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTemplatesRepo) ListAll(ctx context.Context) ([]models.EmailTemplate, error) {
	out := make([]models.EmailTemplate, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *stubTemplatesRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubTemplatesRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func seedTemplates() *stubTemplatesRepo {
	return &stubTemplatesRepo{records: []models.EmailTemplate{
		{ID: uuid.New(), Name: "Cold Intro", Category: "cold_outreach", Tier: enums.AccessTierFree, Subject: "Quick question", Body: "Hi {{first_name}},", OpenRate: 52, ReplyRate: 8},
		{ID: uuid.New(), Name: "Follow Up 2", Category: "follow_up", Tier: enums.AccessTierPro, Subject: "Bumping this", Body: "Just floating this up", OpenRate: 61, ReplyRate: 12},
		{ID: uuid.New(), Name: "Case Study Hook", Category: "cold_outreach", Tier: enums.AccessTierPremium, Subject: "How Acme 3x'd replies", Body: "We helped Acme", OpenRate: 70, ReplyRate: 19},
	}}
}

func TestListNeverExposesBody(t *testing.T) {
	svc, err := NewService(seedTemplates())
	require.NoError(t, err)

	page, err := svc.List(context.Background(), enums.PlanPro, ListQuery{Params: listing.Params{Page: 1, PerPage: 100}})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	// summaries carry metadata and rates only; bodies come from Get
	for _, item := range page.Items {
		assert.False(t, item.Locked)
	}
}

func TestListMarksLockedTiersForFreePlan(t *testing.T) {
	svc, err := NewService(seedTemplates())
	require.NoError(t, err)

	page, err := svc.List(context.Background(), enums.PlanFree, ListQuery{Params: listing.Params{Page: 1, PerPage: 100}})
	require.NoError(t, err)

	lockedCount := 0
	for _, item := range page.Items {
		if item.Locked {
			lockedCount++
			assert.NotEqual(t, enums.AccessTierFree, item.Tier)
		}
	}
	assert.Equal(t, 2, lockedCount)
}

func TestListFiltersByCategoryAndSortsByReplyRate(t *testing.T) {
	svc, err := NewService(seedTemplates())
	require.NoError(t, err)

	page, err := svc.List(context.Background(), enums.PlanPro, ListQuery{
		Category: "cold_outreach",
		SortBy:   "reply_rate",
		SortDesc: true,
		Params:   listing.Params{Page: 1, PerPage: 100},
	})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "Case Study Hook", page.Items[0].Name)
	assert.Equal(t, "Cold Intro", page.Items[1].Name)
}

func TestGetRefusesLockedBodyAtServiceLayer(t *testing.T) {
	repo := seedTemplates()
	svc, err := NewService(repo)
	require.NoError(t, err)

	premium := repo.records[2]
	_, err = svc.Get(context.Background(), enums.PlanFree, premium.ID)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestGetReturnsBodyForUnlockedTier(t *testing.T) {
	repo := seedTemplates()
	svc, err := NewService(repo)
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), enums.PlanPro, repo.records[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bumping this", detail.Subject)
	assert.NotEmpty(t, detail.Body)
	assert.False(t, detail.Locked)
}

func TestGetFreeTemplateWorksOnFreePlan(t *testing.T) {
	repo := seedTemplates()
	svc, err := NewService(repo)
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), enums.PlanFree, repo.records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Quick question", detail.Subject)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	repo := seedTemplates()
	svc, err := NewService(repo)
	require.NoError(t, err)

	rate := 65.0
	record, err := svc.Update(context.Background(), repo.records[0].ID, UpdateTemplateInput{OpenRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, 65.0, record.OpenRate)
	assert.Equal(t, map[string]any{"open_rate": 65.0}, repo.updates)
}

func TestDeleteUnknownTemplateIsNotFound(t *testing.T) {
	svc, err := NewService(seedTemplates())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New())
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
