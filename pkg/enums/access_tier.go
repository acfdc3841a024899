package enums

import "fmt"

// AccessTier gates catalog items (lead containers, email templates).
type AccessTier string

const (
	AccessTierFree    AccessTier = "free"
	AccessTierPro     AccessTier = "pro"
	AccessTierPremium AccessTier = "premium"
)

var validAccessTiers = []AccessTier{AccessTierFree, AccessTierPro, AccessTierPremium}

// String implements fmt.Stringer.
func (a AccessTier) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccessTier.
func (a AccessTier) IsValid() bool {
	for _, candidate := range validAccessTiers {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccessTier converts raw input into an AccessTier.
func ParseAccessTier(value string) (AccessTier, error) {
	for _, candidate := range validAccessTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access tier %q", value)
}
