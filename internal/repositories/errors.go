package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateUser       = errors.New("user already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateAccount    = errors.New("account already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyProcessed    = errors.New("transaction already processed")
	ErrKYCNotFound         = errors.New("kyc record not found")
	ErrDuplicateKYC        = errors.New("kyc record already exists")
	ErrAlreadyDecided      = errors.New("record already decided")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrCaseNotFound        = errors.New("case request not found")
)

// uniqueViolation SQLSTATE per the PostgreSQL docs.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-index conflict.
// The postgres driver rides pgx, so the concrete type is *pgconn.PgError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
