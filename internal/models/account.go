package models

import (
	"time"
)

// Account types
const (
	AccountTypeSavings = "Savings"
	AccountTypeCurrent = "Current"
	AccountTypeAsaan   = "Asaan"
)

// Account statuses. A new account starts Pending and becomes Active
// only through KYC approval.
const (
	AccountStatusPending   = "Pending"
	AccountStatusActive    = "Active"
	AccountStatusSuspended = "Suspended"
	AccountStatusClosed    = "Closed"
)

type Account struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	UserID        uint    `gorm:"uniqueIndex;not null" json:"userId"`
	AccountNumber string  `gorm:"uniqueIndex;not null" json:"accountNumber"`
	AccountType   string  `gorm:"not null" json:"accountType"`
	Balance       float64 `gorm:"default:0;check:balance >= 0" json:"balance"`
	Currency      string  `gorm:"default:'PKR'" json:"currency"`
	Status        string  `gorm:"default:'Pending'" json:"status"`
	Branch        string  `gorm:"default:'Karachi Main Branch'" json:"branch"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccountProjection is the limited view exposed when a customer looks
// up a recipient by account number.
type AccountProjection struct {
	AccountNumber     string `json:"accountNumber"`
	AccountHolderName string `json:"accountHolderName"`
	AccountType       string `json:"accountType"`
	Status            string `json:"status"`
}
