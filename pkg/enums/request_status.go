package enums

import "fmt"

// RequestStatus is a stage in a request's fulfillment pipeline. Support
// tickets use the full five-column kanban set; orders use the linear
// pending/processing/completed subset.
type RequestStatus string

const (
	RequestStatusPending       RequestStatus = "pending"
	RequestStatusCommunication RequestStatus = "communication"
	RequestStatusPayment       RequestStatus = "payment"
	RequestStatusInProgress    RequestStatus = "in_progress"
	RequestStatusDone          RequestStatus = "done"
	RequestStatusProcessing    RequestStatus = "processing"
	RequestStatusCompleted     RequestStatus = "completed"
)

var supportTicketStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusCommunication,
	RequestStatusPayment,
	RequestStatusInProgress,
	RequestStatusDone,
}

var orderStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusProcessing,
	RequestStatusCompleted,
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// StatusesFor returns the ordered status pipeline for the given kind.
func StatusesFor(kind RequestKind) []RequestStatus {
	var src []RequestStatus
	if kind.IsOrder() {
		src = orderStatuses
	} else {
		src = supportTicketStatuses
	}
	out := make([]RequestStatus, len(src))
	copy(out, src)
	return out
}

// ValidFor reports whether the status belongs to the kind's pipeline.
func (s RequestStatus) ValidFor(kind RequestKind) bool {
	for _, candidate := range StatusesFor(kind) {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsDelivery reports whether the status marks delivered work.
func (s RequestStatus) IsDelivery() bool {
	return s == RequestStatusDone || s == RequestStatusCompleted
}

// PipelineIndex returns the position of the status within the kind's
// pipeline, or -1 when the status does not belong to it.
func (s RequestStatus) PipelineIndex(kind RequestKind) int {
	for i, candidate := range StatusesFor(kind) {
		if candidate == s {
			return i
		}
	}
	return -1
}

// ParseRequestStatus converts raw input into a RequestStatus valid for the kind.
func ParseRequestStatus(kind RequestKind, value string) (RequestStatus, error) {
	for _, candidate := range StatusesFor(kind) {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status %q for request kind %q", value, kind)
}
