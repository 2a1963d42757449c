// Package transfer implements the two-phase fund transfer protocol:
// initiate creates a Pending transaction and issues a one-time code
// through an out-of-band channel; confirm verifies the code and commits
// the money movement exactly once.
package transfer

import (
	"context"
	"errors"
	"log"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
	"sahulat/internal/repositories/cache"
	"sahulat/internal/utils"
)

var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrSenderAccountNotFound = errors.New("sender account not found")
	ErrSenderNotActive       = errors.New("sender account is not active")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrRecipientNotFound     = errors.New("recipient account not found")
	ErrRecipientNotActive    = errors.New("recipient account is not active")
	ErrSelfTransfer          = errors.New("cannot transfer to own account")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrForbidden             = errors.New("transaction does not belong to caller")
	ErrInvalidCode           = errors.New("invalid code")
	ErrCodeExpired           = errors.New("code expired")
	ErrAlreadyProcessed      = errors.New("transaction already processed")
	ErrTransferFailed        = errors.New("transfer failed")
)

// OTPIssuer is the out-of-band code channel.
type OTPIssuer interface {
	Issue(ctx context.Context, transactionID string) (string, error)
	Verify(ctx context.Context, transactionID, supplied string) error
}

type InitiateInput struct {
	ToAccount     string
	Amount        float64
	RecipientName string
	RecipientBank string
	Description   string
}

type Service interface {
	// Initiate validates the transfer and creates a Pending
	// transaction. The returned code is only surfaced to the caller in
	// demo deployments; production delivers it out of band.
	Initiate(ctx context.Context, senderUserID uint, input InitiateInput) (*models.Transaction, string, error)

	// Confirm is the single commit point for the money movement.
	Confirm(ctx context.Context, transactionID uint, callerUserID uint, suppliedCode string) (*models.Transaction, error)

	History(ctx context.Context, userID uint) ([]models.Transaction, error)
}

type service struct {
	accounts     repositories.AccountRepository
	transactions repositories.TransactionRepository
	otp          OTPIssuer
}

func NewService(accounts repositories.AccountRepository, transactions repositories.TransactionRepository, otp OTPIssuer) Service {
	return &service{accounts: accounts, transactions: transactions, otp: otp}
}

func (s *service) Initiate(ctx context.Context, senderUserID uint, input InitiateInput) (*models.Transaction, string, error) {
	if input.Amount <= 0 {
		return nil, "", ErrInvalidAmount
	}

	sender, err := s.accounts.GetByUserID(senderUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, "", ErrSenderAccountNotFound
		}
		return nil, "", err
	}
	if sender.Status != models.AccountStatusActive {
		return nil, "", ErrSenderNotActive
	}
	if sender.AccountNumber == input.ToAccount {
		return nil, "", ErrSelfTransfer
	}
	// Checked again at commit under the account row lock.
	if sender.Balance < input.Amount {
		return nil, "", ErrInsufficientBalance
	}

	recipient, err := s.accounts.GetByNumber(input.ToAccount)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, "", ErrRecipientNotFound
		}
		return nil, "", err
	}
	if recipient.Status != models.AccountStatusActive {
		return nil, "", ErrRecipientNotActive
	}

	bank := input.RecipientBank
	if bank == "" {
		bank = models.DefaultRecipientBank
	}

	txn := &models.Transaction{
		TransactionID: utils.GenerateTransactionID(),
		FromAccount:   sender.AccountNumber,
		ToAccount:     input.ToAccount,
		Amount:        input.Amount,
		RecipientName: input.RecipientName,
		RecipientBank: bank,
		Description:   input.Description,
		Status:        models.TransactionStatusPending,
		OTPVerified:   false,
		UserID:        senderUserID,
	}
	if err := s.transactions.Create(txn); err != nil {
		return nil, "", err
	}

	code, err := s.otp.Issue(ctx, txn.TransactionID)
	if err != nil {
		// Without a code the transaction can never be confirmed.
		if ferr := s.transactions.MarkFailed(txn.ID); ferr != nil {
			log.Printf("failed to fail transaction %d after code issue error: %v", txn.ID, ferr)
		}
		return nil, "", err
	}
	return txn, code, nil
}

func (s *service) Confirm(ctx context.Context, transactionID uint, callerUserID uint, suppliedCode string) (*models.Transaction, error) {
	txn, err := s.transactions.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.UserID != callerUserID {
		return nil, ErrForbidden
	}
	if txn.Status != models.TransactionStatusPending {
		return nil, ErrAlreadyProcessed
	}

	if err := s.otp.Verify(ctx, txn.TransactionID, suppliedCode); err != nil {
		switch {
		case errors.Is(err, cache.ErrCodeInvalid):
			return nil, ErrInvalidCode
		case errors.Is(err, cache.ErrCodeExpired):
			return nil, ErrCodeExpired
		default:
			return nil, err
		}
	}

	committed, err := s.transactions.CompleteTransfer(txn.ID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAlreadyProcessed):
			return nil, ErrAlreadyProcessed
		case errors.Is(err, repositories.ErrInsufficientBalance):
			// The balance moved since initiation; the code is spent, so
			// the transfer is dead.
			if ferr := s.transactions.MarkFailed(txn.ID); ferr != nil {
				log.Printf("failed to fail transaction %d: %v", txn.ID, ferr)
			}
			return nil, ErrInsufficientBalance
		case errors.Is(err, repositories.ErrAccountNotFound):
			return nil, ErrSenderAccountNotFound
		default:
			return nil, ErrTransferFailed
		}
	}
	return committed, nil
}

func (s *service) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	return s.transactions.ListByUser(userID, 50)
}
