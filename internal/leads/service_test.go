package leads

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/listing"
)

type stubLeadsRepo struct {
	records []models.LeadContainer
	created []*models.LeadContainer
	updates map[string]any
	deleted []uuid.UUID
}

func (s *stubLeadsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubLeadsRepo) Create(ctx context.Context, record *models.LeadContainer) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.created = append(s.created, record)
	s.records = append(s.records, *record)
	return nil
}

func (s *stubLeadsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.LeadContainer, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			copied := s.records[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLeadsRepo) ListAll(ctx context.Context) ([]models.LeadContainer, error) {
	out := make([]models.LeadContainer, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *stubLeadsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubLeadsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func seedCatalog() *stubLeadsRepo {
	return &stubLeadsRepo{records: []models.LeadContainer{
		{ID: uuid.New(), Name: "SaaS Founders US", Industry: "SaaS", Location: "United States", LeadCount: 5000, Tier: enums.AccessTierFree, DownloadURL: "https://files.leadspark.io/saas-us.csv"},
		{ID: uuid.New(), Name: "SaaS CTOs EU", Industry: "SaaS", Location: "Germany", LeadCount: 1200, Tier: enums.AccessTierPro, DownloadURL: "https://files.leadspark.io/saas-eu.csv"},
		{ID: uuid.New(), Name: "Ecommerce DTC", Industry: "Ecommerce", Location: "United States", LeadCount: 8000, Tier: enums.AccessTierFree, DownloadURL: "https://files.leadspark.io/dtc.csv"},
		{ID: uuid.New(), Name: "Fintech Ops", Industry: "Fintech", Location: "United Kingdom", LeadCount: 900, Tier: enums.AccessTierPremium, DownloadURL: "https://files.leadspark.io/fintech.csv", Tags: pq.StringArray{"compliance"}},
		{ID: uuid.New(), Name: "Healthcare Admins", Industry: "Healthcare", Location: "United States", LeadCount: 3000, Tier: enums.AccessTierPro, DownloadURL: "https://files.leadspark.io/health.csv"},
	}}
}

func TestListFiltersByIndustryRegardlessOfPageSize(t *testing.T) {
	repo := seedCatalog()
	svc, err := NewService(repo)
	require.NoError(t, err)

	for _, perPage := range []int{1, 2, 100} {
		page, err := svc.List(context.Background(), enums.PlanFree, ListQuery{
			Industry: "SaaS",
			Params:   listing.Params{Page: 1, PerPage: perPage},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalCount, "perPage=%d", perPage)
		for _, item := range page.Items {
			assert.Equal(t, "SaaS", item.Industry)
		}
	}
}

func TestListHidesDownloadURLForLockedTiers(t *testing.T) {
	repo := seedCatalog()
	svc, err := NewService(repo)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), enums.PlanFree, ListQuery{Params: listing.Params{Page: 1, PerPage: 100}})
	require.NoError(t, err)

	for _, item := range page.Items {
		if item.Tier == enums.AccessTierFree {
			assert.False(t, item.Locked)
			assert.NotEmpty(t, item.DownloadURL)
		} else {
			assert.True(t, item.Locked)
			assert.Empty(t, item.DownloadURL)
		}
	}
}

func TestListProPlanUnlocksEverything(t *testing.T) {
	repo := seedCatalog()
	svc, err := NewService(repo)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), enums.PlanPro, ListQuery{Params: listing.Params{Page: 1, PerPage: 100}})
	require.NoError(t, err)

	for _, item := range page.Items {
		assert.False(t, item.Locked, "item %s", item.Name)
		assert.NotEmpty(t, item.DownloadURL)
	}
}

func TestListSortsByLeadCountDescending(t *testing.T) {
	repo := seedCatalog()
	svc, err := NewService(repo)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), enums.PlanPro, ListQuery{
		SortBy:   "lead_count",
		SortDesc: true,
		Params:   listing.Params{Page: 1, PerPage: 100},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	for i := 1; i < len(page.Items); i++ {
		assert.GreaterOrEqual(t, page.Items[i-1].LeadCount, page.Items[i].LeadCount)
	}
}

func TestListFiltersByTag(t *testing.T) {
	repo := seedCatalog()
	svc, err := NewService(repo)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), enums.PlanPro, ListQuery{
		Tag:    "Compliance",
		Params: listing.Params{Page: 1, PerPage: 100},
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "Fintech Ops", page.Items[0].Name)
}

func TestDownloadEnforcesTierGate(t *testing.T) {
	repo := seedCatalog()
	svc, err := NewService(repo)
	require.NoError(t, err)

	free := repo.records[0]
	pro := repo.records[1]

	url, err := svc.Download(context.Background(), enums.PlanFree, free.ID)
	require.NoError(t, err)
	assert.Equal(t, free.DownloadURL, url)

	_, err = svc.Download(context.Background(), enums.PlanFree, pro.ID)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	url, err = svc.Download(context.Background(), enums.PlanPro, pro.ID)
	require.NoError(t, err)
	assert.Equal(t, pro.DownloadURL, url)
}

func TestDownloadUnknownIDIsNotFound(t *testing.T) {
	svc, err := NewService(seedCatalog())
	require.NoError(t, err)

	_, err = svc.Download(context.Background(), enums.PlanPro, uuid.New())
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	repo := seedCatalog()
	svc, err := NewService(repo)
	require.NoError(t, err)

	tier := enums.AccessTierPremium
	record, err := svc.Update(context.Background(), repo.records[0].ID, UpdateLeadInput{Tier: &tier})
	require.NoError(t, err)
	assert.Equal(t, enums.AccessTierPremium, record.Tier)
	assert.Equal(t, map[string]any{"tier": enums.AccessTierPremium}, repo.updates)
}
