package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionTopUp       TransactionType = "TOPUP"
	TransactionFarePayment TransactionType = "FARE_PAYMENT"
	TransactionEarning     TransactionType = "EARNING"
)

// Wallet holds a user's balance. The balance is the running sum of the
// wallet's ledger entries and never goes below zero.
type Wallet struct {
	ID      string
	UserID  string
	Balance decimal.Decimal
}

// Transaction is one immutable ledger entry. Settlements write these in
// debit/credit pairs of equal magnitude tagged with the originating trip,
// so the entries of a completed trip always sum to zero.
type Transaction struct {
	ID        string
	WalletID  string
	Amount    decimal.Decimal // negative for debits
	Type      TransactionType
	TripID    string // empty for top-ups
	CreatedAt time.Time
}
