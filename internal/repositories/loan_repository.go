package repositories

import (
	"errors"
	"fmt"
	"time"

	"sahulat/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoLedgerAccount = errors.New("borrower has no ledger account")

type LoanRepository interface {
	Create(loan *models.Loan) error
	GetByID(id uint) (*models.Loan, error)
	ListByUser(userID uint) ([]models.Loan, error)
	ListPending(limit int) ([]models.Loan, error)
	CountPending() (int64, error)
	HasActive(userID uint) (bool, error)

	// Approve flips a Pending loan to Approved and credits the
	// borrower's account in the same database transaction, so the
	// disbursement happens at most once even under concurrent duplicate
	// approvals. A borrower without an account fails ErrNoLedgerAccount
	// and the loan stays Pending.
	Approve(id uint, reviewerID uint, remarks string) (*models.Loan, error)
	Reject(id uint, reviewerID uint, remarks string) (*models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(loan *models.Loan) error {
	if err := r.db.Create(loan).Error; err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

func (r *loanRepository) GetByID(id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.First(&loan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return &loan, nil
}

func (r *loanRepository) ListByUser(userID uint) ([]models.Loan, error) {
	var loans []models.Loan
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) ListPending(limit int) ([]models.Loan, error) {
	var loans []models.Loan
	q := r.db.Where("status = ?", models.LoanStatusPending).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) CountPending() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Loan{}).
		Where("status = ?", models.LoanStatusPending).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending loans: %w", err)
	}
	return count, nil
}

func (r *loanRepository) HasActive(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Loan{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.LoanStatusPending, models.LoanStatusApproved}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check active loans: %w", err)
	}
	return count > 0, nil
}

func (r *loanRepository) Approve(id uint, reviewerID uint, remarks string) (*models.Loan, error) {
	var loan models.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockLoan(tx, &loan, id); err != nil {
			return err
		}

		var account models.Account
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", loan.UserID).
			First(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoLedgerAccount
			}
			return err
		}

		account.Balance += loan.LoanAmount
		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		now := time.Now()
		loan.Status = models.LoanStatusApproved
		loan.Remarks = remarks
		loan.ApprovedBy = &reviewerID
		loan.ApprovalDate = &now
		loan.DisbursementDate = &now
		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) Reject(id uint, reviewerID uint, remarks string) (*models.Loan, error) {
	var loan models.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockLoan(tx, &loan, id); err != nil {
			return err
		}

		now := time.Now()
		loan.Status = models.LoanStatusRejected
		loan.Remarks = remarks
		loan.ApprovedBy = &reviewerID
		loan.ApprovalDate = &now
		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// lockLoan loads the loan under a row lock and enforces the
// Pending-only guard shared by both decisions.
func lockLoan(tx *gorm.DB, loan *models.Loan, id uint) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(loan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLoanNotFound
		}
		return err
	}
	if loan.Decided() {
		return ErrAlreadyDecided
	}
	return nil
}
