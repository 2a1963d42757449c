package repositories

import (
	"errors"
	"fmt"

	"sahulat/internal/models"

	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(id uint) (*models.Account, error)
	GetByUserID(userID uint) (*models.Account, error)
	GetByNumber(number string) (*models.Account, error)

	// AdjustBalance applies delta to the account balance as a single
	// conditional UPDATE. A debit that would take the balance negative
	// fails ErrInsufficientBalance without mutating anything.
	AdjustBalance(accountID uint, delta float64) (newBalance float64, err error)

	// Activate marks the account Active and seeds the opening balance.
	// Only the KYC approval path calls this.
	Activate(accountID uint, openingBalance float64) error

	CountByStatus(status string) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		// Unique index on user_id enforces one account per owner even
		// under concurrent creation.
		if isUniqueViolation(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByUserID(userID uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByNumber(number string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("account_number = ?", number).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) AdjustBalance(accountID uint, delta float64) (float64, error) {
	res := r.db.Model(&models.Account{}).
		Where("id = ? AND balance + ? >= 0", accountID, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing account from an over-debit.
		var count int64
		if err := r.db.Model(&models.Account{}).Where("id = ?", accountID).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to adjust balance: %w", err)
		}
		if count == 0 {
			return 0, ErrAccountNotFound
		}
		return 0, ErrInsufficientBalance
	}

	account, err := r.GetByID(accountID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (r *accountRepository) Activate(accountID uint, openingBalance float64) error {
	res := r.db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"status":  models.AccountStatusActive,
			"balance": openingBalance,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to activate account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) CountByStatus(status string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}
