// Package loan implements loan applications, EMI computation and the
// approve-and-disburse state machine.
package loan

import (
	"context"
	"errors"
	"math"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
)

var (
	ErrDuplicateActiveLoan = errors.New("a pending or approved loan already exists")
	ErrNotFound            = errors.New("loan not found")
	ErrAlreadyDecided      = errors.New("loan already decided")
	ErrNoLedgerAccount     = errors.New("borrower has no ledger account")
	ErrInvalidDecision     = errors.New("decision must be Approved or Rejected")
)

type ApplyInput struct {
	LoanType           string
	LoanAmount         float64
	Tenure             int
	Purpose            string
	MonthlyIncome      float64
	EmploymentType     string
	CompanyName        string
	EmploymentDuration int
}

type Service interface {
	Apply(ctx context.Context, userID uint, input ApplyInput) (*models.Loan, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Loan, error)
	ListPending(ctx context.Context) ([]models.Loan, error)

	// Decide applies an admin ruling. Approval credits the borrower's
	// account with the principal exactly once; a borrower without an
	// account fails ErrNoLedgerAccount and the loan stays Pending.
	Decide(ctx context.Context, loanID uint, status string, reviewerID uint, remarks string) (*models.Loan, error)
}

type service struct {
	loans repositories.LoanRepository
}

func NewService(loans repositories.LoanRepository) Service {
	return &service{loans: loans}
}

// MonthlyInstallment computes the EMI for a principal over tenure
// months at an annual percentage rate, rounded to the nearest rupee:
// P * r * (1+r)^n / ((1+r)^n - 1) with r the monthly rate.
func MonthlyInstallment(principal float64, tenureMonths int, annualRate float64) float64 {
	r := annualRate / 100 / 12
	if r == 0 {
		return math.Round(principal / float64(tenureMonths))
	}
	pow := math.Pow(1+r, float64(tenureMonths))
	return math.Round(principal * r * pow / (pow - 1))
}

func (s *service) Apply(ctx context.Context, userID uint, input ApplyInput) (*models.Loan, error) {
	active, err := s.loans.HasActive(userID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrDuplicateActiveLoan
	}

	loan := &models.Loan{
		UserID:             userID,
		LoanType:           input.LoanType,
		LoanAmount:         input.LoanAmount,
		Tenure:             input.Tenure,
		Purpose:            input.Purpose,
		MonthlyIncome:      input.MonthlyIncome,
		EmploymentType:     input.EmploymentType,
		CompanyName:        input.CompanyName,
		EmploymentDuration: input.EmploymentDuration,
		InterestRate:       models.LoanInterestRate,
		Status:             models.LoanStatusPending,
	}
	loan.MonthlyInstallment = MonthlyInstallment(loan.LoanAmount, loan.Tenure, loan.InterestRate)

	if err := s.loans.Create(loan); err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]models.Loan, error) {
	return s.loans.ListByUser(userID)
}

func (s *service) ListPending(ctx context.Context) ([]models.Loan, error) {
	return s.loans.ListPending(0)
}

func (s *service) Decide(ctx context.Context, loanID uint, status string, reviewerID uint, remarks string) (*models.Loan, error) {
	var (
		loan *models.Loan
		err  error
	)
	switch status {
	case models.LoanStatusApproved:
		loan, err = s.loans.Approve(loanID, reviewerID, remarks)
	case models.LoanStatusRejected:
		loan, err = s.loans.Reject(loanID, reviewerID, remarks)
	default:
		return nil, ErrInvalidDecision
	}

	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrLoanNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repositories.ErrAlreadyDecided):
			return nil, ErrAlreadyDecided
		case errors.Is(err, repositories.ErrNoLedgerAccount):
			return nil, ErrNoLedgerAccount
		default:
			return nil, err
		}
	}
	return loan, nil
}
