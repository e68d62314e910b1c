package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// UserService registers users. Every user gets an empty wallet in the
// same transaction; a user without a wallet cannot settle fares.
type UserService struct {
	uow      repository.UnitOfWork
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(uow repository.UnitOfWork, userRepo repository.UserRepository) *UserService {
	return &UserService{uow: uow, userRepo: userRepo}
}

// Register creates a user and their wallet.
func (s *UserService) Register(ctx context.Context, name string) (*domain.User, *domain.Wallet, error) {
	if name == "" {
		return nil, nil, ErrInvalidUserID
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	wallet := &domain.Wallet{
		ID:      uuid.New().String(),
		UserID:  user.ID,
		Balance: decimal.Zero,
	}

	err := s.uow.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		return r.Wallets.Create(ctx, wallet)
	})
	if err != nil {
		return nil, nil, err
	}

	return user, wallet, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, userID)
}
