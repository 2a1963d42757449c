package repositories

import (
	"errors"
	"fmt"
	"time"

	"sahulat/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KYCRepository interface {
	Create(kyc *models.KYCRecord) error
	GetByID(id uint) (*models.KYCRecord, error)
	GetByUserID(userID uint) (*models.KYCRecord, error)
	ListPending(limit int) ([]models.KYCRecord, error)
	CountPending() (int64, error)

	// Decide moves a Pending record to Approved or Rejected. Approval
	// activates the linked account and seeds the opening balance in the
	// same database transaction, so the side effect can never run twice.
	Decide(id uint, status string, reviewerID uint, remarks string, openingCredit float64) (*models.KYCRecord, error)
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) Create(kyc *models.KYCRecord) error {
	if err := r.db.Create(kyc).Error; err != nil {
		// Unique index on account_id: one KYC record per account.
		if isUniqueViolation(err) {
			return ErrDuplicateKYC
		}
		return fmt.Errorf("failed to create kyc record: %w", err)
	}
	return nil
}

func (r *kycRepository) GetByID(id uint) (*models.KYCRecord, error) {
	var kyc models.KYCRecord
	if err := r.db.First(&kyc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, fmt.Errorf("failed to get kyc record: %w", err)
	}
	return &kyc, nil
}

func (r *kycRepository) GetByUserID(userID uint) (*models.KYCRecord, error) {
	var kyc models.KYCRecord
	if err := r.db.Where("user_id = ?", userID).First(&kyc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, fmt.Errorf("failed to get kyc record: %w", err)
	}
	return &kyc, nil
}

func (r *kycRepository) ListPending(limit int) ([]models.KYCRecord, error) {
	var records []models.KYCRecord
	q := r.db.Where("status = ?", models.KYCStatusPending).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending kyc records: %w", err)
	}
	return records, nil
}

func (r *kycRepository) CountPending() (int64, error) {
	var count int64
	if err := r.db.Model(&models.KYCRecord{}).
		Where("status = ?", models.KYCStatusPending).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending kyc records: %w", err)
	}
	return count, nil
}

func (r *kycRepository) Decide(id uint, status string, reviewerID uint, remarks string, openingCredit float64) (*models.KYCRecord, error) {
	var kyc models.KYCRecord

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&kyc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrKYCNotFound
			}
			return err
		}
		if kyc.Decided() {
			return ErrAlreadyDecided
		}

		now := time.Now()
		kyc.Status = status
		kyc.Remarks = remarks
		kyc.VerifiedBy = &reviewerID
		kyc.VerificationDate = &now
		if err := tx.Save(&kyc).Error; err != nil {
			return err
		}

		if status == models.KYCStatusApproved {
			res := tx.Model(&models.Account{}).
				Where("id = ?", kyc.AccountID).
				Updates(map[string]interface{}{
					"status":  models.AccountStatusActive,
					"balance": openingCredit,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrAccountNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &kyc, nil
}
