package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
// Balances and amounts persist as numeric(12,2); decimal.Decimal scans
// them without float conversion.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Create persists a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, balance) VALUES ($1, $2, $3)`

	_, err := r.q.ExecContext(ctx, query, wallet.ID, wallet.UserID, wallet.Balance)
	return err
}

// GetByUserID retrieves a user's wallet.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT id, user_id, balance FROM wallets WHERE user_id = $1`

	var wallet domain.Wallet
	err := r.q.QueryRowContext(ctx, query, userID).Scan(&wallet.ID, &wallet.UserID, &wallet.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &wallet, nil
}

// UpdateBalance sets the wallet balance.
func (r *WalletRepository) UpdateBalance(ctx context.Context, walletID string, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, walletID, balance)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CreateTransaction appends a ledger entry.
func (r *WalletRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, wallet_id, amount, type, trip_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		tx.ID,
		tx.WalletID,
		tx.Amount,
		tx.Type,
		nullString(tx.TripID),
		tx.CreatedAt,
	)

	return err
}

// GetTransactions retrieves a wallet's ledger entries, newest first.
func (r *WalletRepository) GetTransactions(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, wallet_id, amount, type, trip_id, created_at
		FROM transactions WHERE wallet_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var tripID sql.NullString
		err := rows.Scan(&tx.ID, &tx.WalletID, &tx.Amount, &tx.Type, &tripID, &tx.CreatedAt)
		if err != nil {
			return nil, err
		}
		if tripID.Valid {
			tx.TripID = tripID.String
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}
