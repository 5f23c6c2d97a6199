package domain

// Event types carried on the booking topics.
const (
	EventTypeBookingCreated = "booking.created"
)

// Dead-letter reasons attached to rejected booking events.
const (
	DeadLetterReasonInvalidPayload    = "invalid_payload"
	DeadLetterReasonAccountNotFound   = "account_not_found"
	DeadLetterReasonInsufficientFunds = "insufficient_funds"
)

// BookingCreatedEvent is the wire payload of a booking creation event.
type BookingCreatedEvent struct {
	EventType string `json:"event_type"`
	BookingID string `json:"booking_id"`
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DeadLetterEvent is published when a booking payment is rejected
// non-retryably, so the booking flow can compensate.
type DeadLetterEvent struct {
	BookingID string `json:"booking_id"`
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	Error     string `json:"error"`
}
