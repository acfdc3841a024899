package plans

import (
	"github.com/shopspring/decimal"

	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

// Unlimited marks a resource with no monthly cap.
const Unlimited = -1

// limits is the single source of truth for per-plan resource caps.
var limits = map[enums.Plan]map[enums.Resource]int{
	enums.PlanFree: {
		enums.ResourceAIEmail:         30,
		enums.ResourceCustomProspects: 0,
	},
	enums.PlanPro: {
		enums.ResourceAIEmail:         Unlimited,
		enums.ResourceCustomProspects: 10,
	},
}

// features lists what each plan can reach beyond metered resources.
var features = map[enums.Plan]map[enums.Feature]bool{
	enums.PlanFree: {},
	enums.PlanPro: {
		enums.FeatureSmartLead:       true,
		enums.FeatureLMS:             true,
		enums.FeatureCustomProspects: true,
	},
}

// LimitFor returns the monthly cap for a plan/resource pair. Unknown pairs
// resolve to zero, which denies consumption.
func LimitFor(plan enums.Plan, resource enums.Resource) int {
	if planLimits, ok := limits[plan]; ok {
		if limit, ok := planLimits[resource]; ok {
			return limit
		}
	}
	return 0
}

// IsUnlimited reports whether the plan has no cap on the resource.
func IsUnlimited(plan enums.Plan, resource enums.Resource) bool {
	return LimitFor(plan, resource) == Unlimited
}

// HasFeature reports whether the plan includes the named feature.
func HasFeature(plan enums.Plan, feature enums.Feature) bool {
	return features[plan][feature]
}

// TierAllowed reports whether the plan may access catalog content of the
// given tier. Free accounts see free-tier content only; pro accounts see
// everything.
func TierAllowed(plan enums.Plan, tier enums.AccessTier) bool {
	switch plan {
	case enums.PlanPro:
		return true
	case enums.PlanFree:
		return tier == enums.AccessTierFree
	default:
		return false
	}
}

// Info describes one subscription plan for the public catalog.
type Info struct {
	Plan         enums.Plan      `json:"plan"`
	Name         string          `json:"name"`
	PriceMonthly decimal.Decimal `json:"price_monthly"`
	Limits       map[string]int  `json:"limits"`
	Features     []string        `json:"features"`
}

// Catalog returns the purchasable plans in display order.
func Catalog() []Info {
	return []Info{
		{
			Plan:         enums.PlanFree,
			Name:         "Free",
			PriceMonthly: decimal.Zero,
			Limits:       limitsFor(enums.PlanFree),
			Features:     featuresFor(enums.PlanFree),
		},
		{
			Plan:         enums.PlanPro,
			Name:         "Pro",
			PriceMonthly: decimal.NewFromInt(49),
			Limits:       limitsFor(enums.PlanPro),
			Features:     featuresFor(enums.PlanPro),
		},
	}
}

func limitsFor(plan enums.Plan) map[string]int {
	out := make(map[string]int, len(limits[plan]))
	for resource, limit := range limits[plan] {
		out[string(resource)] = limit
	}
	return out
}

func featuresFor(plan enums.Plan) []string {
	out := []string{}
	for _, feature := range enums.Features() {
		if features[plan][feature] {
			out = append(out, string(feature))
		}
	}
	return out
}
