package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"carpool/internal/domain"
	"carpool/internal/service"
)

func (f *fixture) walletService() *service.WalletService {
	return service.NewWalletService(f.uow, f.wallets)
}

func (f *fixture) userService() *service.UserService {
	return service.NewUserService(f.uow, f.users)
}

func TestTopUp(t *testing.T) {
	f := newFixture()
	f.addWallet("w-1", "user-1", "10.00")
	svc := f.walletService()

	wallet, err := svc.TopUp(context.Background(), "user-1", decimal.RequireFromString("25.50"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.Balance.StringFixed(2) != "35.50" {
		t.Errorf("expected balance 35.50, got %s", wallet.Balance.StringFixed(2))
	}

	txs, err := svc.GetTransactions(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(txs))
	}
	if txs[0].Type != domain.TransactionTopUp {
		t.Errorf("expected TOPUP entry, got %s", txs[0].Type)
	}
	if txs[0].Amount.StringFixed(2) != "25.50" {
		t.Errorf("expected amount 25.50, got %s", txs[0].Amount.StringFixed(2))
	}
	if txs[0].TripID != "" {
		t.Errorf("top-up entry should not reference a trip, got %q", txs[0].TripID)
	}
}

func TestTopUpRejectsNonPositiveAmounts(t *testing.T) {
	f := newFixture()
	f.addWallet("w-1", "user-1", "10.00")
	svc := f.walletService()

	for _, amount := range []string{"0", "-5.00"} {
		if _, err := svc.TopUp(context.Background(), "user-1", decimal.RequireFromString(amount)); !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if f.wallets.TransactionCount() != 0 {
		t.Errorf("expected no ledger entries, got %d", f.wallets.TransactionCount())
	}
}

func TestRegisterCreatesWallet(t *testing.T) {
	f := newFixture()

	user, wallet, err := f.userService().Register(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "alice" {
		t.Errorf("expected name alice, got %s", user.Name)
	}
	if wallet.UserID != user.ID {
		t.Errorf("wallet not bound to user: %s vs %s", wallet.UserID, user.ID)
	}
	if !wallet.Balance.IsZero() {
		t.Errorf("expected zero starting balance, got %s", wallet.Balance)
	}

	stored, err := f.wallets.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("wallet not persisted: %v", err)
	}
	if !stored.Balance.IsZero() {
		t.Errorf("expected zero stored balance, got %s", stored.Balance)
	}
}
