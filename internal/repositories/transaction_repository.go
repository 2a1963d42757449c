package repositories

import (
	"errors"
	"fmt"

	"sahulat/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	Create(txn *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	ListByUser(userID uint, limit int) ([]models.Transaction, error)

	// CompleteTransfer is the single commit point for a transfer: it
	// debits the sender, credits the recipient if the account lives in
	// this system, and flips the transaction Pending -> Completed, all
	// inside one serializable unit. A second call for the same
	// transaction fails ErrAlreadyProcessed.
	CompleteTransfer(id uint) (*models.Transaction, error)

	// MarkFailed flips a Pending transaction to Failed.
	MarkFailed(id uint) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(txn *models.Transaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) ListByUser(userID uint, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (r *transactionRepository) MarkFailed(id uint) error {
	res := r.db.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.TransactionStatusPending).
		Update("status", models.TransactionStatusFailed)
	if res.Error != nil {
		return fmt.Errorf("failed to mark transaction failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

func (r *transactionRepository) CompleteTransfer(id uint) (*models.Transaction, error) {
	var txn models.Transaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// The transaction row lock plus the Pending-only guard is the
		// at-most-once barrier for retried or duplicate confirms.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&txn, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if txn.Status != models.TransactionStatusPending {
			return ErrAlreadyProcessed
		}

		// Lock both accounts in account-number order so two opposing
		// transfers cannot deadlock.
		numbers := []string{txn.FromAccount}
		if txn.ToAccount != txn.FromAccount {
			numbers = append(numbers, txn.ToAccount)
			if numbers[1] < numbers[0] {
				numbers[0], numbers[1] = numbers[1], numbers[0]
			}
		}

		accounts := map[string]*models.Account{}
		for _, number := range numbers {
			var account models.Account
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("account_number = ?", number).
				First(&account).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // external-bank account
				}
				return err
			}
			accounts[number] = &account
		}

		sender, ok := accounts[txn.FromAccount]
		if !ok {
			return ErrAccountNotFound
		}
		// Balance was checked at initiation but may have moved since.
		if sender.Balance < txn.Amount {
			return ErrInsufficientBalance
		}

		sender.Balance -= txn.Amount
		if err := tx.Save(sender).Error; err != nil {
			return err
		}

		// External-bank recipients are modeled as debit-only.
		if recipient, ok := accounts[txn.ToAccount]; ok {
			recipient.Balance += txn.Amount
			if err := tx.Save(recipient).Error; err != nil {
				return err
			}
		}

		txn.Status = models.TransactionStatusCompleted
		txn.OTPVerified = true
		return tx.Save(&txn).Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
