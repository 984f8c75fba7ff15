package domain

import "time"

// Notification is a persisted message to the user, optionally linked back
// to the decision that produced it. Created once, never mutated by the
// decision subsystem. Delivery is a separate concern; rows start out
// pending.
type Notification struct {
	ID             string
	UserID         string
	AIDecisionID   string // optional
	Type           string
	Subject        string
	Content        string
	DeliveryStatus string
	SentAt         time.Time
	OpenedAt       *time.Time
}

const (
	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
)
