package models

import (
	"time"
)

// Transaction statuses. Balance movement happens exactly once, on the
// Pending -> Completed transition.
const (
	TransactionStatusPending   = "Pending"
	TransactionStatusCompleted = "Completed"
	TransactionStatusFailed    = "Failed"
)

const DefaultRecipientBank = "Standard Chartered Bank"

// Transaction models a simulated IBFT transfer. FromAccount and
// ToAccount are account numbers; ToAccount may belong to an external
// bank, in which case the commit is debit-only.
type Transaction struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	TransactionID string  `gorm:"uniqueIndex;not null" json:"transactionId"`
	FromAccount   string  `gorm:"not null;index" json:"fromAccount"`
	ToAccount     string  `gorm:"not null;index" json:"toAccount"`
	Amount        float64 `gorm:"not null" json:"amount"`
	RecipientName string  `gorm:"not null" json:"recipientName"`
	RecipientBank string  `gorm:"default:'Standard Chartered Bank'" json:"recipientBank"`
	Description   string  `json:"description"`
	OTPVerified   bool    `gorm:"default:false" json:"otpVerified"`
	Status        string  `gorm:"default:'Pending'" json:"status"`
	UserID        uint    `gorm:"not null;index" json:"userId"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
