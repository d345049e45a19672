package order

import "strings"

// TrackingStatus is an order's position in the delivery pipeline
type TrackingStatus string

const (
	TrackingPlaced         TrackingStatus = "PLACED"
	TrackingConfirmed      TrackingStatus = "CONFIRMED"
	TrackingPacked         TrackingStatus = "PACKED"
	TrackingShipped        TrackingStatus = "SHIPPED"
	TrackingOutForDelivery TrackingStatus = "OUT_FOR_DELIVERY"
	TrackingDelivered      TrackingStatus = "DELIVERED"
)

// Pipeline is the fixed order every shipment moves through, one step at a time.
var Pipeline = []TrackingStatus{
	TrackingPlaced,
	TrackingConfirmed,
	TrackingPacked,
	TrackingShipped,
	TrackingOutForDelivery,
	TrackingDelivered,
}

// String returns the string representation
func (s TrackingStatus) String() string {
	return string(s)
}

// Position returns the index in Pipeline, or -1 for an unknown status
func (s TrackingStatus) Position() int {
	for i, p := range Pipeline {
		if p == s {
			return i
		}
	}
	return -1
}

// IsValid checks if the status is part of the pipeline
func (s TrackingStatus) IsValid() bool {
	return s.Position() >= 0
}

// IsTerminal reports whether no further transition exists
func (s TrackingStatus) IsTerminal() bool {
	return s == Pipeline[len(Pipeline)-1]
}

// Next returns the following status. ok is false for terminal or unknown statuses.
func (s TrackingStatus) Next() (TrackingStatus, bool) {
	pos := s.Position()
	if pos < 0 || pos >= len(Pipeline)-1 {
		return "", false
	}
	return Pipeline[pos+1], true
}

// CanTransitionTo allows only the immediate successor; no skips, no regressions
func (s TrackingStatus) CanTransitionTo(target TrackingStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

// Label is the human-readable form, e.g. "OUT FOR DELIVERY"
func (s TrackingStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}
