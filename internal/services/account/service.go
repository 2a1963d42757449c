// Package account is the ledger service: account opening, lookups and
// the admin balance adjustment path. All balance mutations go through
// the repository's atomic operations.
package account

import (
	"context"
	"errors"
	"fmt"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
	"sahulat/internal/repositories/cache"
	"sahulat/internal/utils"
)

var (
	ErrAlreadyHasAccount   = errors.New("user already has an account")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidOperation    = errors.New("invalid operation")
)

// Adjustment operations accepted by AdjustBalance.
const (
	OperationAdd    = "add"
	OperationDeduct = "deduct"
)

type Service interface {
	Open(ctx context.Context, ownerID uint, accountType string) (*models.Account, error)
	GetByOwner(ctx context.Context, ownerID uint) (*models.Account, error)
	Lookup(ctx context.Context, number string) (*models.AccountProjection, error)

	// AdjustBalance is the admin add/deduct path. Deduct fails
	// ErrInsufficientBalance rather than taking the balance negative.
	// Like KYC seeding, it may touch accounts that are still Pending.
	AdjustBalance(ctx context.Context, ownerID uint, amount float64, operation string) (previous, current float64, err error)
}

type service struct {
	accounts repositories.AccountRepository
	users    repositories.UserRepository
	cache    *cache.AccountCache
}

func NewService(accounts repositories.AccountRepository, users repositories.UserRepository, accountCache *cache.AccountCache) Service {
	return &service{accounts: accounts, users: users, cache: accountCache}
}

func (s *service) Open(ctx context.Context, ownerID uint, accountType string) (*models.Account, error) {
	account := &models.Account{
		UserID:        ownerID,
		AccountNumber: utils.GenerateAccountNumber(),
		AccountType:   accountType,
		Balance:       0,
		Status:        models.AccountStatusPending,
		Currency:      "PKR",
		Branch:        "Karachi Main Branch",
	}
	if err := s.accounts.Create(account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateAccount) {
			return nil, ErrAlreadyHasAccount
		}
		return nil, err
	}
	return account, nil
}

func (s *service) GetByOwner(ctx context.Context, ownerID uint) (*models.Account, error) {
	account, err := s.accounts.GetByUserID(ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *service) Lookup(ctx context.Context, number string) (*models.AccountProjection, error) {
	if s.cache != nil {
		if proj, ok := s.cache.Get(ctx, number); ok {
			return proj, nil
		}
	}

	account, err := s.accounts.GetByNumber(number)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	holder, err := s.users.GetByID(account.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account holder: %w", err)
	}

	proj := &models.AccountProjection{
		AccountNumber:     account.AccountNumber,
		AccountHolderName: holder.FullName,
		AccountType:       account.AccountType,
		Status:            account.Status,
	}
	if s.cache != nil {
		s.cache.Set(ctx, proj)
	}
	return proj, nil
}

func (s *service) AdjustBalance(ctx context.Context, ownerID uint, amount float64, operation string) (float64, float64, error) {
	if amount <= 0 {
		return 0, 0, ErrInvalidOperation
	}

	account, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return 0, 0, err
	}
	previous := account.Balance

	delta := amount
	switch operation {
	case OperationAdd:
	case OperationDeduct:
		delta = -amount
	default:
		return 0, 0, ErrInvalidOperation
	}

	current, err := s.accounts.AdjustBalance(account.ID, delta)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return 0, 0, ErrInsufficientBalance
		}
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return 0, 0, ErrAccountNotFound
		}
		return 0, 0, err
	}
	return previous, current, nil
}
