// Package caserequest is the generic store behind the non-monetary
// service requests: cheque books, debit cards, statements and
// complaints. They share a submit/list/decide lifecycle and carry
// type-specific payloads; no cross-entity invariants apply.
package caserequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrNotFound        = errors.New("case request not found")
	ErrInvalidType     = errors.New("unknown case request type")
)

type SubmitInput struct {
	Type      string
	AccountID uint // required for account-bound types
	Payload   models.JSON
}

type Service interface {
	Submit(ctx context.Context, userID uint, input SubmitInput) (*models.CaseRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CaseRequest, error)
	ListOpen(ctx context.Context, caseType string) ([]models.CaseRequest, error)
	UpdateStatus(ctx context.Context, id uint, status string, handledBy uint, remarks string) (*models.CaseRequest, error)
	CountOpenComplaints(ctx context.Context) (int64, error)
}

type service struct {
	cases    repositories.CaseRequestRepository
	accounts repositories.AccountRepository
}

func NewService(cases repositories.CaseRequestRepository, accounts repositories.AccountRepository) Service {
	return &service{cases: cases, accounts: accounts}
}

func (s *service) Submit(ctx context.Context, userID uint, input SubmitInput) (*models.CaseRequest, error) {
	req := &models.CaseRequest{
		UserID:  userID,
		Type:    input.Type,
		Payload: input.Payload,
	}

	switch input.Type {
	case models.CaseTypeComplaint:
		req.Status = models.CaseStatusOpen
	case models.CaseTypeChequeBook, models.CaseTypeDebitCard, models.CaseTypeStatement:
		account, err := s.accounts.GetByID(input.AccountID)
		if err != nil || account.UserID != userID {
			return nil, ErrAccountNotFound
		}
		req.AccountID = &account.ID
		req.AccountNumber = account.AccountNumber
		req.Status = models.CaseStatusPending
	default:
		return nil, ErrInvalidType
	}

	// Cheque books and statements get simulated back-office processing
	// immediately on submission.
	switch input.Type {
	case models.CaseTypeChequeBook:
		req.Status = models.CaseStatusProcessing
	case models.CaseTypeStatement:
		if req.Payload == nil {
			req.Payload = models.JSON{}
		}
		req.Payload["statementFileUrl"] = fmt.Sprintf("/simulated/statement_%d.pdf", time.Now().UnixMilli())
		req.Status = models.CaseStatusGenerated
	}

	if err := s.cases.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]models.CaseRequest, error) {
	return s.cases.ListByUser(userID)
}

func (s *service) ListOpen(ctx context.Context, caseType string) ([]models.CaseRequest, error) {
	return s.cases.ListByStatus(caseType,
		models.CaseStatusPending, models.CaseStatusProcessing,
		models.CaseStatusOpen, models.CaseStatusInProgress)
}

func (s *service) UpdateStatus(ctx context.Context, id uint, status string, handledBy uint, remarks string) (*models.CaseRequest, error) {
	req, err := s.cases.UpdateStatus(id, status, handledBy, remarks)
	if err != nil {
		if errors.Is(err, repositories.ErrCaseNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *service) CountOpenComplaints(ctx context.Context) (int64, error) {
	return s.cases.CountByStatus(models.CaseTypeComplaint,
		models.CaseStatusOpen, models.CaseStatusInProgress)
}
