package enums

import "fmt"

// Feature names a whole product surface gated by plan rather than per-item tier.
type Feature string

const (
	FeatureSmartLead       Feature = "smartlead"
	FeatureLMS             Feature = "lms"
	FeatureCustomProspects Feature = "custom_prospects"
)

var validFeatures = []Feature{FeatureSmartLead, FeatureLMS, FeatureCustomProspects}

// String implements fmt.Stringer.
func (f Feature) String() string {
	return string(f)
}

// IsValid reports whether the value is a known Feature.
func (f Feature) IsValid() bool {
	for _, candidate := range validFeatures {
		if candidate == f {
			return true
		}
	}
	return false
}

// Features returns every gated product surface.
func Features() []Feature {
	out := make([]Feature, len(validFeatures))
	copy(out, validFeatures)
	return out
}

// ParseFeature converts raw input into a Feature.
func ParseFeature(value string) (Feature, error) {
	for _, candidate := range validFeatures {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid feature %q", value)
}
