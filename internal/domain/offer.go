package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferStatus represents the current status of an offer.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "PENDING"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusRejected OfferStatus = "REJECTED"
)

// Offer binds one trip to one ride request at a fare fixed when the offer
// was created. Detour is the extra hop count versus the trip's remaining
// route before insertion; it can be negative when the insertion happens
// to shorten the route.
type Offer struct {
	ID        string
	TripID    string
	RequestID string
	Fare      decimal.Decimal
	Detour    int
	Status    OfferStatus
	CreatedAt time.Time
}
