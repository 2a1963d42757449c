package transfer

import (
	"context"
	"sync"
	"testing"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
	"sahulat/internal/repositories/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	mu       sync.Mutex
	byNumber map[string]*models.Account
}

func newFakeAccountRepo(accounts ...*models.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{byNumber: map[string]*models.Account{}}
	for _, a := range accounts {
		r.byNumber[a.AccountNumber] = a
	}
	return r
}

func (r *fakeAccountRepo) Create(account *models.Account) error { return nil }

func (r *fakeAccountRepo) GetByID(id uint) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byNumber {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repositories.ErrAccountNotFound
}

func (r *fakeAccountRepo) GetByUserID(userID uint) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byNumber {
		if a.UserID == userID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repositories.ErrAccountNotFound
}

func (r *fakeAccountRepo) GetByNumber(number string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byNumber[number]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAccountRepo) AdjustBalance(accountID uint, delta float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byNumber {
		if a.ID == accountID {
			if a.Balance+delta < 0 {
				return 0, repositories.ErrInsufficientBalance
			}
			a.Balance += delta
			return a.Balance, nil
		}
	}
	return 0, repositories.ErrAccountNotFound
}

func (r *fakeAccountRepo) Activate(accountID uint, openingBalance float64) error { return nil }

func (r *fakeAccountRepo) CountByStatus(status string) (int64, error) { return 0, nil }

// fakeTransactionRepo mirrors the Pending-only commit semantics of the
// real repository against the fake account ledger.
type fakeTransactionRepo struct {
	mu       sync.Mutex
	nextID   uint
	txns     map[uint]*models.Transaction
	accounts *fakeAccountRepo
}

func newFakeTransactionRepo(accounts *fakeAccountRepo) *fakeTransactionRepo {
	return &fakeTransactionRepo{txns: map[uint]*models.Transaction{}, accounts: accounts}
}

func (r *fakeTransactionRepo) Create(txn *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	txn.ID = r.nextID
	copied := *txn
	r.txns[txn.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) GetByID(id uint) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	copied := *txn
	return &copied, nil
}

func (r *fakeTransactionRepo) ListByUser(userID uint, limit int) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, txn := range r.txns {
		if txn.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) MarkFailed(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok || txn.Status != models.TransactionStatusPending {
		return repositories.ErrAlreadyProcessed
	}
	txn.Status = models.TransactionStatusFailed
	return nil
}

func (r *fakeTransactionRepo) CompleteTransfer(id uint) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	if txn.Status != models.TransactionStatusPending {
		return nil, repositories.ErrAlreadyProcessed
	}

	r.accounts.mu.Lock()
	defer r.accounts.mu.Unlock()
	sender, ok := r.accounts.byNumber[txn.FromAccount]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	if sender.Balance < txn.Amount {
		return nil, repositories.ErrInsufficientBalance
	}
	sender.Balance -= txn.Amount
	if recipient, ok := r.accounts.byNumber[txn.ToAccount]; ok {
		recipient.Balance += txn.Amount
	}

	txn.Status = models.TransactionStatusCompleted
	txn.OTPVerified = true
	copied := *txn
	return &copied, nil
}

// fakeOTPIssuer issues a fixed code and tracks single-use consumption.
type fakeOTPIssuer struct {
	mu    sync.Mutex
	codes map[string]string
	fail  bool
}

func newFakeOTPIssuer() *fakeOTPIssuer {
	return &fakeOTPIssuer{codes: map[string]string{}}
}

func (f *fakeOTPIssuer) Issue(ctx context.Context, transactionID string) (string, error) {
	if f.fail {
		return "", assert.AnError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[transactionID] = "654321"
	return "654321", nil
}

func (f *fakeOTPIssuer) Verify(ctx context.Context, transactionID, supplied string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.codes[transactionID]
	if !ok {
		return cache.ErrCodeExpired
	}
	if code != supplied {
		return cache.ErrCodeInvalid
	}
	delete(f.codes, transactionID)
	return nil
}

func activeAccount(id, userID uint, number string, balance float64) *models.Account {
	return &models.Account{
		ID:            id,
		UserID:        userID,
		AccountNumber: number,
		AccountType:   models.AccountTypeSavings,
		Balance:       balance,
		Status:        models.AccountStatusActive,
	}
}

func TestInitiate(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)

	tests := []struct {
		name    string
		input   InitiateInput
		wantErr error
	}{
		{
			name:    "negative amount",
			input:   InitiateInput{ToAccount: recipient.AccountNumber, Amount: -50},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "zero amount",
			input:   InitiateInput{ToAccount: recipient.AccountNumber, Amount: 0},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "self transfer",
			input:   InitiateInput{ToAccount: sender.AccountNumber, Amount: 100},
			wantErr: ErrSelfTransfer,
		},
		{
			name:    "insufficient balance",
			input:   InitiateInput{ToAccount: recipient.AccountNumber, Amount: 5001},
			wantErr: ErrInsufficientBalance,
		},
		{
			name:    "unknown recipient",
			input:   InitiateInput{ToAccount: "SCBPK-9999999999", Amount: 100},
			wantErr: ErrRecipientNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := newFakeAccountRepo(sender, recipient)
			txns := newFakeTransactionRepo(accounts)
			svc := NewService(accounts, txns, newFakeOTPIssuer())

			_, _, err := svc.Initiate(context.Background(), 10, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, txns.txns, "no transaction record on validation failure")
		})
	}
}

func TestInitiateCreatesPendingTransaction(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)
	accounts := newFakeAccountRepo(sender, recipient)
	txns := newFakeTransactionRepo(accounts)
	svc := NewService(accounts, txns, newFakeOTPIssuer())

	txn, code, err := svc.Initiate(context.Background(), 10, InitiateInput{
		ToAccount:     recipient.AccountNumber,
		Amount:        1500,
		RecipientName: "Bilal Ahmed",
	})
	require.NoError(t, err)
	assert.Equal(t, "654321", code)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.False(t, txn.OTPVerified)
	assert.Equal(t, models.DefaultRecipientBank, txn.RecipientBank)
	assert.Contains(t, txn.TransactionID, "TXN")

	// No money moves at initiation.
	got, _ := accounts.GetByNumber(sender.AccountNumber)
	assert.Equal(t, float64(5000), got.Balance)
}

func TestInitiateSenderNotActive(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	sender.Status = models.AccountStatusPending
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)
	accounts := newFakeAccountRepo(sender, recipient)
	svc := NewService(accounts, newFakeTransactionRepo(accounts), newFakeOTPIssuer())

	_, _, err := svc.Initiate(context.Background(), 10, InitiateInput{ToAccount: recipient.AccountNumber, Amount: 100})
	assert.ErrorIs(t, err, ErrSenderNotActive)
}

func TestInitiateMarksFailedWhenCodeIssueFails(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)
	accounts := newFakeAccountRepo(sender, recipient)
	txns := newFakeTransactionRepo(accounts)
	issuer := newFakeOTPIssuer()
	issuer.fail = true
	svc := NewService(accounts, txns, issuer)

	_, _, err := svc.Initiate(context.Background(), 10, InitiateInput{ToAccount: recipient.AccountNumber, Amount: 100})
	require.Error(t, err)
	require.Len(t, txns.txns, 1)
	for _, txn := range txns.txns {
		assert.Equal(t, models.TransactionStatusFailed, txn.Status)
	}
}

func TestConfirmMovesMoneyExactlyOnce(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)
	accounts := newFakeAccountRepo(sender, recipient)
	txns := newFakeTransactionRepo(accounts)
	svc := NewService(accounts, txns, newFakeOTPIssuer())

	txn, code, err := svc.Initiate(context.Background(), 10, InitiateInput{
		ToAccount: recipient.AccountNumber,
		Amount:    1500,
	})
	require.NoError(t, err)

	committed, err := svc.Confirm(context.Background(), txn.ID, 10, code)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, committed.Status)
	assert.True(t, committed.OTPVerified)

	senderAfter, _ := accounts.GetByNumber(sender.AccountNumber)
	recipientAfter, _ := accounts.GetByNumber(recipient.AccountNumber)
	assert.Equal(t, float64(3500), senderAfter.Balance)
	assert.Equal(t, float64(2500), recipientAfter.Balance)
	assert.Equal(t, float64(6000), senderAfter.Balance+recipientAfter.Balance, "transfer conserves total balance")

	// A second confirm must not move money again.
	_, err = svc.Confirm(context.Background(), txn.ID, 10, code)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	senderAfter, _ = accounts.GetByNumber(sender.AccountNumber)
	assert.Equal(t, float64(3500), senderAfter.Balance)
}

func TestConfirmRejectsWrongCaller(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)
	accounts := newFakeAccountRepo(sender, recipient)
	txns := newFakeTransactionRepo(accounts)
	svc := NewService(accounts, txns, newFakeOTPIssuer())

	txn, code, err := svc.Initiate(context.Background(), 10, InitiateInput{
		ToAccount: recipient.AccountNumber,
		Amount:    100,
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), txn.ID, 99, code)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmCodeHandling(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)

	t.Run("wrong code", func(t *testing.T) {
		accounts := newFakeAccountRepo(sender, recipient)
		txns := newFakeTransactionRepo(accounts)
		svc := NewService(accounts, txns, newFakeOTPIssuer())

		txn, _, err := svc.Initiate(context.Background(), 10, InitiateInput{ToAccount: recipient.AccountNumber, Amount: 100})
		require.NoError(t, err)

		_, err = svc.Confirm(context.Background(), txn.ID, 10, "000000")
		assert.ErrorIs(t, err, ErrInvalidCode)

		// A wrong code does not consume the real one.
		_, err = svc.Confirm(context.Background(), txn.ID, 10, "654321")
		assert.NoError(t, err)
	})

	t.Run("expired code", func(t *testing.T) {
		accounts := newFakeAccountRepo(activeAccount(1, 10, "SCBPK-1111111111", 5000), recipient)
		txns := newFakeTransactionRepo(accounts)
		issuer := newFakeOTPIssuer()
		svc := NewService(accounts, txns, issuer)

		txn, code, err := svc.Initiate(context.Background(), 10, InitiateInput{ToAccount: recipient.AccountNumber, Amount: 100})
		require.NoError(t, err)

		delete(issuer.codes, txn.TransactionID)
		_, err = svc.Confirm(context.Background(), txn.ID, 10, code)
		assert.ErrorIs(t, err, ErrCodeExpired)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		accounts := newFakeAccountRepo(sender, recipient)
		svc := NewService(accounts, newFakeTransactionRepo(accounts), newFakeOTPIssuer())

		_, err := svc.Confirm(context.Background(), 42, 10, "654321")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestConfirmFailsWhenBalanceMovedSinceInitiation(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)
	accounts := newFakeAccountRepo(sender, recipient)
	txns := newFakeTransactionRepo(accounts)
	svc := NewService(accounts, txns, newFakeOTPIssuer())

	txn, code, err := svc.Initiate(context.Background(), 10, InitiateInput{
		ToAccount: recipient.AccountNumber,
		Amount:    4000,
	})
	require.NoError(t, err)

	// Drain the sender between initiate and confirm.
	_, err = accounts.AdjustBalance(sender.ID, -3000)
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), txn.ID, 10, code)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	stored, err := txns.GetByID(txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, stored.Status)
}

func TestConcurrentConfirmsCommitOnce(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	recipient := activeAccount(2, 20, "SCBPK-2222222222", 1000)
	accounts := newFakeAccountRepo(sender, recipient)
	txns := newFakeTransactionRepo(accounts)
	svc := NewService(accounts, txns, newFakeOTPIssuer())

	txn, code, err := svc.Initiate(context.Background(), 10, InitiateInput{
		ToAccount: recipient.AccountNumber,
		Amount:    1000,
	})
	require.NoError(t, err)

	const confirms = 8
	var wg sync.WaitGroup
	results := make([]error, confirms)
	for i := 0; i < confirms; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Confirm(context.Background(), txn.ID, 10, code)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one confirm commits")

	senderAfter, _ := accounts.GetByNumber(sender.AccountNumber)
	recipientAfter, _ := accounts.GetByNumber(recipient.AccountNumber)
	assert.Equal(t, float64(4000), senderAfter.Balance)
	assert.Equal(t, float64(2000), recipientAfter.Balance)
}

func TestExternalBankTransferIsDebitOnly(t *testing.T) {
	sender := activeAccount(1, 10, "SCBPK-1111111111", 5000)
	external := activeAccount(2, 20, "HBL-3333333333", 0)
	accounts := newFakeAccountRepo(sender, external)
	txns := newFakeTransactionRepo(accounts)
	svc := NewService(accounts, txns, newFakeOTPIssuer())

	txn, code, err := svc.Initiate(context.Background(), 10, InitiateInput{
		ToAccount:     external.AccountNumber,
		Amount:        500,
		RecipientBank: "HBL",
	})
	require.NoError(t, err)
	assert.Equal(t, "HBL", txn.RecipientBank)

	_, err = svc.Confirm(context.Background(), txn.ID, 10, code)
	require.NoError(t, err)

	senderAfter, _ := accounts.GetByNumber(sender.AccountNumber)
	assert.Equal(t, float64(4500), senderAfter.Balance)
}
