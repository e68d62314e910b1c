package domain

import "time"

// User represents a driver or passenger. Identity is opaque here; the
// core only compares ownership (driver-of-trip, passenger-of-request).
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
