package domain

// DeliveryStatus tracks how far a message progressed towards its recipient.
// The lifecycle is strictly forward: sent -> delivered -> read.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
)

var statusRank = map[DeliveryStatus]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusRead:      2,
}

func (s DeliveryStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving to next is a real forward transition.
// Equal or backward requests are not errors, they are idempotent no-ops;
// callers skip persistence and notification when this returns false.
func (s DeliveryStatus) CanAdvanceTo(next DeliveryStatus) bool {
	current, ok := statusRank[s]
	if !ok {
		return false
	}
	target, ok := statusRank[next]
	if !ok {
		return false
	}
	return target > current
}
