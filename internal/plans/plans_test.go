package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

func TestLimitFor(t *testing.T) {
	cases := []struct {
		name     string
		plan     enums.Plan
		resource enums.Resource
		want     int
	}{
		{"free ai email", enums.PlanFree, enums.ResourceAIEmail, 30},
		{"free custom prospects", enums.PlanFree, enums.ResourceCustomProspects, 0},
		{"pro ai email", enums.PlanPro, enums.ResourceAIEmail, Unlimited},
		{"pro custom prospects", enums.PlanPro, enums.ResourceCustomProspects, 10},
		{"unknown plan", enums.Plan("enterprise"), enums.ResourceAIEmail, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LimitFor(tc.plan, tc.resource))
		})
	}
}

func TestIsUnlimited(t *testing.T) {
	assert.True(t, IsUnlimited(enums.PlanPro, enums.ResourceAIEmail))
	assert.False(t, IsUnlimited(enums.PlanFree, enums.ResourceAIEmail))
	assert.False(t, IsUnlimited(enums.PlanPro, enums.ResourceCustomProspects))
}

func TestHasFeature(t *testing.T) {
	assert.False(t, HasFeature(enums.PlanFree, enums.FeatureSmartLead))
	assert.False(t, HasFeature(enums.PlanFree, enums.FeatureLMS))
	assert.False(t, HasFeature(enums.PlanFree, enums.FeatureCustomProspects))

	assert.True(t, HasFeature(enums.PlanPro, enums.FeatureSmartLead))
	assert.True(t, HasFeature(enums.PlanPro, enums.FeatureLMS))
	assert.True(t, HasFeature(enums.PlanPro, enums.FeatureCustomProspects))
}

func TestTierAllowed(t *testing.T) {
	assert.True(t, TierAllowed(enums.PlanFree, enums.AccessTierFree))
	assert.False(t, TierAllowed(enums.PlanFree, enums.AccessTierPro))
	assert.False(t, TierAllowed(enums.PlanFree, enums.AccessTierPremium))

	assert.True(t, TierAllowed(enums.PlanPro, enums.AccessTierFree))
	assert.True(t, TierAllowed(enums.PlanPro, enums.AccessTierPro))
	assert.True(t, TierAllowed(enums.PlanPro, enums.AccessTierPremium))

	assert.False(t, TierAllowed(enums.Plan("enterprise"), enums.AccessTierFree))
}

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 2)

	free := catalog[0]
	assert.Equal(t, enums.PlanFree, free.Plan)
	assert.True(t, free.PriceMonthly.IsZero())
	assert.Equal(t, 30, free.Limits[string(enums.ResourceAIEmail)])
	assert.Empty(t, free.Features)

	pro := catalog[1]
	assert.Equal(t, enums.PlanPro, pro.Plan)
	assert.True(t, pro.PriceMonthly.GreaterThan(free.PriceMonthly))
	assert.Equal(t, Unlimited, pro.Limits[string(enums.ResourceAIEmail)])
	assert.Contains(t, pro.Features, string(enums.FeatureLMS))
}
