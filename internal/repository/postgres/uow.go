package postgres

import (
	"context"
	"database/sql"

	"carpool/internal/repository"
)

// UnitOfWork is a PostgreSQL implementation of repository.UnitOfWork.
// Every callback runs inside one sql.Tx; any error rolls the whole
// transaction back.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a new UnitOfWork.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithinTx runs fn with transaction-scoped repositories and commits on
// success.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := repository.Repositories{
		Trips:    NewTripRepositoryWithTx(tx),
		Requests: NewRequestRepositoryWithTx(tx),
		Offers:   NewOfferRepositoryWithTx(tx),
		Wallets:  NewWalletRepositoryWithTx(tx),
		Users:    NewUserRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
