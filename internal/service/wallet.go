package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// WalletService exposes wallet reads and top-ups. Settlement debits and
// credits are the TripService's business; this service never decrements
// a balance.
type WalletService struct {
	uow        repository.UnitOfWork
	walletRepo repository.WalletRepository
}

// NewWalletService creates a new WalletService.
func NewWalletService(uow repository.UnitOfWork, walletRepo repository.WalletRepository) *WalletService {
	return &WalletService{uow: uow, walletRepo: walletRepo}
}

// GetWallet retrieves a user's wallet.
func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.walletRepo.GetByUserID(ctx, userID)
}

// TopUp adds funds to a user's wallet and records the ledger entry, both
// in one transaction.
func (s *WalletService) TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var wallet *domain.Wallet
	err := s.uow.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		wallet, err = r.Wallets.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		wallet.Balance = wallet.Balance.Add(amount)
		if err := r.Wallets.UpdateBalance(ctx, wallet.ID, wallet.Balance); err != nil {
			return err
		}

		return r.Wallets.CreateTransaction(ctx, &domain.Transaction{
			ID:        uuid.New().String(),
			WalletID:  wallet.ID,
			Amount:    amount,
			Type:      domain.TransactionTopUp,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// GetTransactions retrieves a user's ledger entries, newest first.
func (s *WalletService) GetTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.walletRepo.GetTransactions(ctx, wallet.ID)
}
