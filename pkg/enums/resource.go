package enums

import "fmt"

// Resource identifies a metered capability counted against plan quotas.
type Resource string

const (
	ResourceAIEmail         Resource = "ai_email"
	ResourceCustomProspects Resource = "custom_prospects"
)

var validResources = []Resource{ResourceAIEmail, ResourceCustomProspects}

// String implements fmt.Stringer.
func (r Resource) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Resource.
func (r Resource) IsValid() bool {
	for _, candidate := range validResources {
		if candidate == r {
			return true
		}
	}
	return false
}

// ResetsMonthly reports whether usage for the resource rolls over on a
// calendar-month boundary. AI email usage only resets through an admin
// action, matching the billing copy shipped to customers.
func (r Resource) ResetsMonthly() bool {
	return r == ResourceCustomProspects
}

// ParseResource converts raw input into a Resource.
func ParseResource(value string) (Resource, error) {
	for _, candidate := range validResources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource %q", value)
}

// Resources returns every metered resource kind.
func Resources() []Resource {
	out := make([]Resource, len(validResources))
	copy(out, validResources)
	return out
}
