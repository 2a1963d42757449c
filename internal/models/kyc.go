package models

import (
	"time"

	"gorm.io/gorm"
)

// KYC review statuses. Approved and Rejected are terminal.
const (
	KYCStatusPending  = "Pending"
	KYCStatusApproved = "Approved"
	KYCStatusRejected = "Rejected"
)

// Monthly income bands accepted on a KYC submission.
var KYCIncomeBands = []string{"Below 25k", "25k-50k", "50k-100k", "100k-200k", "Above 200k"}

type KYCRecord struct {
	gorm.Model
	UserID    uint `gorm:"not null;index" json:"userId"`
	AccountID uint `gorm:"uniqueIndex;not null" json:"accountId"`

	FatherName    string    `gorm:"not null" json:"fatherName"`
	DateOfBirth   time.Time `gorm:"not null" json:"dateOfBirth"`
	Street        string    `json:"street"`
	City          string    `json:"city"`
	Province      string    `json:"province"`
	PostalCode    string    `json:"postalCode"`
	Occupation    string    `gorm:"not null" json:"occupation"`
	MonthlyIncome string    `gorm:"not null" json:"monthlyIncome"`

	// Document uploads are simulated; only the references are stored.
	CNICFront   string `gorm:"column:cnic_front;default:'simulated_cnic_front.jpg'" json:"cnicFront"`
	CNICBack    string `gorm:"column:cnic_back;default:'simulated_cnic_back.jpg'" json:"cnicBack"`
	UtilityBill string `gorm:"default:'simulated_utility_bill.pdf'" json:"utilityBill"`

	Status           string     `gorm:"default:'Pending'" json:"status"`
	VerifiedBy       *uint      `json:"verifiedBy,omitempty"`
	VerificationDate *time.Time `json:"verificationDate,omitempty"`
	Remarks          string     `json:"remarks"`
}

// Decided reports whether the record has reached a terminal status.
func (k *KYCRecord) Decided() bool {
	return k.Status != KYCStatusPending
}
