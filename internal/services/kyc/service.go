// Package kyc implements the verification state machine that gates
// account activation.
package kyc

import (
	"context"
	"errors"
	"log"
	"time"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
	"sahulat/internal/repositories/cache"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateKYC    = errors.New("kyc already submitted for this account")
	ErrNotFound        = errors.New("kyc record not found")
	ErrAlreadyDecided  = errors.New("kyc record already decided")
	ErrInvalidDecision = errors.New("decision must be Approved or Rejected")
)

type SubmitInput struct {
	AccountID     uint
	FatherName    string
	DateOfBirth   time.Time
	Street        string
	City          string
	Province      string
	PostalCode    string
	Occupation    string
	MonthlyIncome string
}

type Service interface {
	// Submit files a KYC record for the caller's account. One record
	// per account; the account must belong to the caller.
	Submit(ctx context.Context, userID uint, input SubmitInput) (*models.KYCRecord, error)
	GetByUser(ctx context.Context, userID uint) (*models.KYCRecord, error)
	ListPending(ctx context.Context) ([]models.KYCRecord, error)

	// Decide applies an admin ruling. Approval activates the account
	// and seeds the opening credit exactly once; deciding a decided
	// record fails ErrAlreadyDecided.
	Decide(ctx context.Context, kycID uint, status string, reviewerID uint, remarks string) (*models.KYCRecord, error)
}

type service struct {
	records       repositories.KYCRepository
	accounts      repositories.AccountRepository
	cache         *cache.AccountCache
	openingCredit float64
}

func NewService(records repositories.KYCRepository, accounts repositories.AccountRepository, accountCache *cache.AccountCache, openingCredit float64) Service {
	return &service{
		records:       records,
		accounts:      accounts,
		cache:         accountCache,
		openingCredit: openingCredit,
	}
}

func (s *service) Submit(ctx context.Context, userID uint, input SubmitInput) (*models.KYCRecord, error) {
	account, err := s.accounts.GetByID(input.AccountID)
	if err != nil || account.UserID != userID {
		return nil, ErrAccountNotFound
	}

	record := &models.KYCRecord{
		UserID:        userID,
		AccountID:     input.AccountID,
		FatherName:    input.FatherName,
		DateOfBirth:   input.DateOfBirth,
		Street:        input.Street,
		City:          input.City,
		Province:      input.Province,
		PostalCode:    input.PostalCode,
		Occupation:    input.Occupation,
		MonthlyIncome: input.MonthlyIncome,
		Status:        models.KYCStatusPending,
	}
	if err := s.records.Create(record); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKYC) {
			return nil, ErrDuplicateKYC
		}
		return nil, err
	}
	return record, nil
}

func (s *service) GetByUser(ctx context.Context, userID uint) (*models.KYCRecord, error) {
	record, err := s.records.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *service) ListPending(ctx context.Context) ([]models.KYCRecord, error) {
	return s.records.ListPending(0)
}

func (s *service) Decide(ctx context.Context, kycID uint, status string, reviewerID uint, remarks string) (*models.KYCRecord, error) {
	if status != models.KYCStatusApproved && status != models.KYCStatusRejected {
		return nil, ErrInvalidDecision
	}

	record, err := s.records.Decide(kycID, status, reviewerID, remarks, s.openingCredit)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrKYCNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repositories.ErrAlreadyDecided):
			return nil, ErrAlreadyDecided
		default:
			return nil, err
		}
	}

	// The cached public projection carries the account status; drop it
	// now that activation may have changed it.
	if status == models.KYCStatusApproved && s.cache != nil {
		if account, err := s.accounts.GetByID(record.AccountID); err == nil {
			if err := s.cache.Invalidate(ctx, account.AccountNumber); err != nil {
				log.Printf("failed to invalidate account cache for %s: %v", account.AccountNumber, err)
			}
		}
	}
	return record, nil
}
