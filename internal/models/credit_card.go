package models

import (
	"time"

	"gorm.io/gorm"
)

// Credit card application statuses.
const (
	CardStatusPending  = "Pending"
	CardStatusApproved = "Approved"
	CardStatusRejected = "Rejected"
)

var CardTypes = []string{"Silver", "Gold", "Platinum"}

// CardMinIncome is the minimum declared monthly income for an application.
const CardMinIncome = 25000

type CreditCardApplication struct {
	gorm.Model
	UserID         uint    `gorm:"not null;index" json:"userId"`
	CardType       string  `gorm:"not null" json:"cardType"`
	EmploymentType string  `gorm:"not null" json:"employmentType"`
	MonthlyIncome  float64 `gorm:"not null" json:"monthlyIncome"`
	CompanyName    string  `json:"companyName"`
	Designation    string  `json:"designation"`
	OfficeAddress  string  `json:"officeAddress"`
	RequestedLimit float64 `gorm:"not null" json:"requestedLimit"`

	Status       string     `gorm:"default:'Pending'" json:"status"`
	ApprovedBy   *uint      `json:"approvedBy,omitempty"`
	ApprovalDate *time.Time `json:"approvalDate,omitempty"`
	Remarks      string     `json:"remarks"`

	// Present only once approved.
	CardNumber    string  `json:"cardNumber,omitempty"`
	NetworkToken  string  `json:"-"`
	ApprovedLimit float64 `json:"approvedLimit,omitempty"`
}

// Decided reports whether the application has reached a terminal status.
func (a *CreditCardApplication) Decided() bool {
	return a.Status != CardStatusPending
}
