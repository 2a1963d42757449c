package loan

import (
	"context"
	"sync"
	"testing"
	"time"

	"sahulat/internal/models"
	"sahulat/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoanRepo mirrors the Pending-only decision guard of the real
// repository and credits a single in-memory ledger balance on approval.
type fakeLoanRepo struct {
	mu       sync.Mutex
	nextID   uint
	loans    map[uint]*models.Loan
	balances map[uint]float64 // userID -> ledger balance
	credits  int
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: map[uint]*models.Loan{}, balances: map[uint]float64{}}
}

func (r *fakeLoanRepo) Create(loan *models.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	loan.ID = r.nextID
	copied := *loan
	r.loans[loan.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) GetByID(id uint) (*models.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[id]
	if !ok {
		return nil, repositories.ErrLoanNotFound
	}
	copied := *loan
	return &copied, nil
}

func (r *fakeLoanRepo) ListByUser(userID uint) ([]models.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Loan
	for _, loan := range r.loans {
		if loan.UserID == userID {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ListPending(limit int) ([]models.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Loan
	for _, loan := range r.loans {
		if loan.Status == models.LoanStatusPending {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) CountPending() (int64, error) {
	pending, _ := r.ListPending(0)
	return int64(len(pending)), nil
}

func (r *fakeLoanRepo) HasActive(userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, loan := range r.loans {
		if loan.UserID == userID &&
			(loan.Status == models.LoanStatusPending || loan.Status == models.LoanStatusApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLoanRepo) Approve(id uint, reviewerID uint, remarks string) (*models.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[id]
	if !ok {
		return nil, repositories.ErrLoanNotFound
	}
	if loan.Status != models.LoanStatusPending {
		return nil, repositories.ErrAlreadyDecided
	}
	if _, ok := r.balances[loan.UserID]; !ok {
		return nil, repositories.ErrNoLedgerAccount
	}

	r.balances[loan.UserID] += loan.LoanAmount
	r.credits++
	now := time.Now()
	loan.Status = models.LoanStatusApproved
	loan.ApprovedBy = &reviewerID
	loan.ApprovalDate = &now
	loan.DisbursementDate = &now
	loan.Remarks = remarks
	copied := *loan
	return &copied, nil
}

func (r *fakeLoanRepo) Reject(id uint, reviewerID uint, remarks string) (*models.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[id]
	if !ok {
		return nil, repositories.ErrLoanNotFound
	}
	if loan.Status != models.LoanStatusPending {
		return nil, repositories.ErrAlreadyDecided
	}
	loan.Status = models.LoanStatusRejected
	loan.ApprovedBy = &reviewerID
	loan.Remarks = remarks
	copied := *loan
	return &copied, nil
}

func validApplyInput() ApplyInput {
	return ApplyInput{
		LoanType:           "Personal Loan",
		LoanAmount:         200000,
		Tenure:             24,
		Purpose:            "Home renovation",
		MonthlyIncome:      90000,
		EmploymentType:     "Salaried",
		CompanyName:        "Systems Ltd",
		EmploymentDuration: 3,
	}
}

func TestMonthlyInstallment(t *testing.T) {
	t.Run("zero rate splits evenly", func(t *testing.T) {
		assert.Equal(t, float64(10000), MonthlyInstallment(120000, 12, 0))
	})

	t.Run("standard amortization", func(t *testing.T) {
		emi := MonthlyInstallment(100000, 12, 18.5)
		assert.InDelta(t, 9192, emi, 1)
		assert.Equal(t, emi, float64(int64(emi)), "rounded to whole rupees")
	})

	t.Run("interest makes total exceed principal", func(t *testing.T) {
		emi := MonthlyInstallment(500000, 36, 18.5)
		assert.Greater(t, emi*36, float64(500000))
	})

	t.Run("longer tenure lowers the installment", func(t *testing.T) {
		short := MonthlyInstallment(300000, 12, 18.5)
		long := MonthlyInstallment(300000, 60, 18.5)
		assert.Less(t, long, short)
	})
}

func TestApply(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewService(repo)

	loan, err := svc.Apply(context.Background(), 10, validApplyInput())
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusPending, loan.Status)
	assert.Equal(t, models.LoanInterestRate, loan.InterestRate)
	assert.Equal(t, MonthlyInstallment(200000, 24, models.LoanInterestRate), loan.MonthlyInstallment)
}

func TestApplyRejectsSecondActiveLoan(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewService(repo)

	_, err := svc.Apply(context.Background(), 10, validApplyInput())
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), 10, validApplyInput())
	assert.ErrorIs(t, err, ErrDuplicateActiveLoan)

	// A different user is unaffected.
	_, err = svc.Apply(context.Background(), 11, validApplyInput())
	assert.NoError(t, err)
}

func TestApplyAllowedAfterRejection(t *testing.T) {
	repo := newFakeLoanRepo()
	repo.balances[10] = 0
	svc := NewService(repo)

	loan, err := svc.Apply(context.Background(), 10, validApplyInput())
	require.NoError(t, err)
	_, err = svc.Decide(context.Background(), loan.ID, models.LoanStatusRejected, 1, "income too low")
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), 10, validApplyInput())
	assert.NoError(t, err)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		hasAccount bool
		wantErr    error
		wantCredit float64
	}{
		{
			name:       "approve disburses principal",
			status:     models.LoanStatusApproved,
			hasAccount: true,
			wantCredit: 200000,
		},
		{
			name:       "reject leaves ledger untouched",
			status:     models.LoanStatusRejected,
			hasAccount: true,
			wantCredit: 0,
		},
		{
			name:       "approve without ledger account",
			status:     models.LoanStatusApproved,
			hasAccount: false,
			wantErr:    ErrNoLedgerAccount,
		},
		{
			name:    "invalid status",
			status:  "Perhaps",
			wantErr: ErrInvalidDecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeLoanRepo()
			if tt.hasAccount {
				repo.balances[10] = 0
			}
			svc := NewService(repo)

			loan, err := svc.Apply(context.Background(), 10, validApplyInput())
			require.NoError(t, err)

			decided, err := svc.Decide(context.Background(), loan.ID, tt.status, 1, "reviewed")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, decided.Status)
			assert.Equal(t, tt.wantCredit, repo.balances[10])
			if tt.status == models.LoanStatusApproved {
				assert.NotNil(t, decided.DisbursementDate)
			}
		})
	}
}

func TestDecideUnknownLoan(t *testing.T) {
	svc := NewService(newFakeLoanRepo())
	_, err := svc.Decide(context.Background(), 404, models.LoanStatusApproved, 1, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideDisbursesAtMostOnce(t *testing.T) {
	repo := newFakeLoanRepo()
	repo.balances[10] = 0
	svc := NewService(repo)

	loan, err := svc.Apply(context.Background(), 10, validApplyInput())
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Decide(context.Background(), loan.ID, models.LoanStatusApproved, 1, "ok")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyDecided)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, repo.credits)
	assert.Equal(t, float64(200000), repo.balances[10])
}

func TestFailedDisbursementLeavesLoanPending(t *testing.T) {
	repo := newFakeLoanRepo() // no ledger account for anyone
	svc := NewService(repo)

	loan, err := svc.Apply(context.Background(), 10, validApplyInput())
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), loan.ID, models.LoanStatusApproved, 1, "")
	require.ErrorIs(t, err, ErrNoLedgerAccount)

	stored, err := repo.GetByID(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusPending, stored.Status)

	// The loan can be decided once the account exists.
	repo.balances[10] = 0
	_, err = svc.Decide(context.Background(), loan.ID, models.LoanStatusApproved, 1, "")
	assert.NoError(t, err)
}
