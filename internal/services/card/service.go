// Package card implements the credit card application and approval
// flow. Approval issues a synthetic card number and a limit; it has no
// ledger effect.
package card

import (
	"context"
	"errors"
	"log"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
	"sahulat/internal/utils"
)

var (
	ErrDuplicateActiveApplication = errors.New("a pending or approved application already exists")
	ErrNotFound                   = errors.New("application not found")
	ErrAlreadyDecided             = errors.New("application already decided")
	ErrInvalidDecision            = errors.New("decision must be Approved or Rejected")
)

type ApplyInput struct {
	CardType       string
	EmploymentType string
	MonthlyIncome  float64
	CompanyName    string
	Designation    string
	OfficeAddress  string
	RequestedLimit float64
}

type Service interface {
	Apply(ctx context.Context, userID uint, input ApplyInput) (*models.CreditCardApplication, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CreditCardApplication, error)
	ListPending(ctx context.Context) ([]models.CreditCardApplication, error)

	// Review decides an application. Approval generates the card
	// number, registers it with the card network and sets the approved
	// limit (admin-supplied, or the requested limit when omitted).
	Review(ctx context.Context, appID uint, status string, reviewerID uint, approvedLimit float64, remarks string) (*models.CreditCardApplication, error)
}

type service struct {
	applications repositories.CreditCardRepository
}

func NewService(applications repositories.CreditCardRepository) Service {
	return &service{applications: applications}
}

func (s *service) Apply(ctx context.Context, userID uint, input ApplyInput) (*models.CreditCardApplication, error) {
	active, err := s.applications.HasActive(userID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrDuplicateActiveApplication
	}

	app := &models.CreditCardApplication{
		UserID:         userID,
		CardType:       input.CardType,
		EmploymentType: input.EmploymentType,
		MonthlyIncome:  input.MonthlyIncome,
		CompanyName:    input.CompanyName,
		Designation:    input.Designation,
		OfficeAddress:  input.OfficeAddress,
		RequestedLimit: input.RequestedLimit,
		Status:         models.CardStatusPending,
	}
	if err := s.applications.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]models.CreditCardApplication, error) {
	return s.applications.ListByUser(userID)
}

func (s *service) ListPending(ctx context.Context) ([]models.CreditCardApplication, error) {
	return s.applications.ListPending(0)
}

func (s *service) Review(ctx context.Context, appID uint, status string, reviewerID uint, approvedLimit float64, remarks string) (*models.CreditCardApplication, error) {
	if status != models.CardStatusApproved && status != models.CardStatusRejected {
		return nil, ErrInvalidDecision
	}

	decision := repositories.CardDecision{
		Status:     status,
		ReviewerID: reviewerID,
		Remarks:    remarks,
	}
	if status == models.CardStatusApproved {
		app, err := s.applications.GetByID(appID)
		if err != nil {
			if errors.Is(err, repositories.ErrApplicationNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		decision.CardNumber = utils.GenerateCardNumber()
		decision.ApprovedLimit = approvedLimit
		if decision.ApprovedLimit == 0 {
			decision.ApprovedLimit = app.RequestedLimit
		}

		networkToken, err := tokenize(decision.CardNumber, app.CardType)
		if err != nil {
			// The card still works in this simulated system; keep the
			// approval and log the network failure.
			log.Printf("card network registration failed for application %d: %v", appID, err)
		} else {
			decision.NetworkToken = networkToken.Token
		}
	}

	app, err := s.applications.Review(appID, decision)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repositories.ErrAlreadyDecided):
			return nil, ErrAlreadyDecided
		default:
			return nil, err
		}
	}
	return app, nil
}
