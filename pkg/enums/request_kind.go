package enums

import "fmt"

// RequestKind discriminates the fulfillment pipelines sharing the requests table.
type RequestKind string

const (
	RequestKindSupportTicket     RequestKind = "support_ticket"
	RequestKindProspectOrder     RequestKind = "prospect_order"
	RequestKindEmailAccountOrder RequestKind = "email_account_order"
)

var validRequestKinds = []RequestKind{
	RequestKindSupportTicket,
	RequestKindProspectOrder,
	RequestKindEmailAccountOrder,
}

// String implements fmt.Stringer.
func (k RequestKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known RequestKind.
func (k RequestKind) IsValid() bool {
	for _, candidate := range validRequestKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// IsOrder reports whether the kind follows the linear order pipeline.
func (k RequestKind) IsOrder() bool {
	return k == RequestKindProspectOrder || k == RequestKindEmailAccountOrder
}

// ParseRequestKind converts raw input into a RequestKind.
func ParseRequestKind(value string) (RequestKind, error) {
	for _, candidate := range validRequestKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request kind %q", value)
}
