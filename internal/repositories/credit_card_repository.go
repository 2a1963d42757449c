package repositories

import (
	"errors"
	"fmt"
	"time"

	"sahulat/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditCardRepository interface {
	Create(app *models.CreditCardApplication) error
	GetByID(id uint) (*models.CreditCardApplication, error)
	ListByUser(userID uint) ([]models.CreditCardApplication, error)
	ListPending(limit int) ([]models.CreditCardApplication, error)
	CountPending() (int64, error)
	HasActive(userID uint) (bool, error)

	// Review decides a Pending application. On approval the issued card
	// number, network token and approved limit are stamped in the same
	// write as the status flip.
	Review(id uint, decision CardDecision) (*models.CreditCardApplication, error)
}

// CardDecision carries the reviewer's ruling on an application.
type CardDecision struct {
	Status        string
	ReviewerID    uint
	Remarks       string
	CardNumber    string
	NetworkToken  string
	ApprovedLimit float64
}

type creditCardRepository struct {
	db *gorm.DB
}

func NewCreditCardRepository(db *gorm.DB) CreditCardRepository {
	return &creditCardRepository{db: db}
}

func (r *creditCardRepository) Create(app *models.CreditCardApplication) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *creditCardRepository) GetByID(id uint) (*models.CreditCardApplication, error) {
	var app models.CreditCardApplication
	if err := r.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (r *creditCardRepository) ListByUser(userID uint) ([]models.CreditCardApplication, error) {
	var apps []models.CreditCardApplication
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *creditCardRepository) ListPending(limit int) ([]models.CreditCardApplication, error) {
	var apps []models.CreditCardApplication
	q := r.db.Where("status = ?", models.CardStatusPending).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}
	return apps, nil
}

func (r *creditCardRepository) CountPending() (int64, error) {
	var count int64
	if err := r.db.Model(&models.CreditCardApplication{}).
		Where("status = ?", models.CardStatusPending).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending applications: %w", err)
	}
	return count, nil
}

func (r *creditCardRepository) HasActive(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CreditCardApplication{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.CardStatusPending, models.CardStatusApproved}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check active applications: %w", err)
	}
	return count > 0, nil
}

func (r *creditCardRepository) Review(id uint, decision CardDecision) (*models.CreditCardApplication, error) {
	var app models.CreditCardApplication

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}
		if app.Decided() {
			return ErrAlreadyDecided
		}

		now := time.Now()
		app.Status = decision.Status
		app.Remarks = decision.Remarks
		app.ApprovedBy = &decision.ReviewerID
		app.ApprovalDate = &now
		if decision.Status == models.CardStatusApproved {
			app.CardNumber = decision.CardNumber
			app.NetworkToken = decision.NetworkToken
			app.ApprovedLimit = decision.ApprovedLimit
		}
		return tx.Save(&app).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}
