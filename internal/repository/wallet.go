package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"carpool/internal/domain"
)

// WalletRepository defines the persistence operations for wallets and
// their ledger entries.
type WalletRepository interface {
	// Create persists a new wallet.
	Create(ctx context.Context, wallet *domain.Wallet) error

	// GetByUserID retrieves a user's wallet.
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	// UpdateBalance sets the wallet balance.
	UpdateBalance(ctx context.Context, walletID string, balance decimal.Decimal) error

	// CreateTransaction appends a ledger entry. Entries are never updated
	// or deleted.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error

	// GetTransactions retrieves a wallet's ledger entries, newest first.
	GetTransactions(ctx context.Context, walletID string) ([]*domain.Transaction, error)
}
