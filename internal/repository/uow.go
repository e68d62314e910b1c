package repository

import "context"

// Repositories bundles the transaction-scoped repositories handed to a
// unit-of-work callback.
type Repositories struct {
	Trips    TripRepository
	Requests RequestRepository
	Offers   OfferRepository
	Wallets  WalletRepository
	Users    UserRepository
}

// UnitOfWork runs a set of mutations atomically. The callback receives
// repositories bound to one transaction; returning an error rolls every
// mutation back. Offer acceptance and trip settlement depend on this
// all-or-nothing contract.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
