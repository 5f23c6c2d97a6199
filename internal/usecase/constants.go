package usecase

import "time"

const (
	// BookingKeyTTL is how long processed booking IDs are remembered in
	// the fast-path idempotency store. The transactions table unique
	// constraint remains the authoritative guard after expiry.
	BookingKeyTTL = 7 * 24 * time.Hour

	// IdempotencyKeyTTL is how long HTTP idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
