package models

import (
	"time"

	"gorm.io/gorm"
)

// Loan statuses. Disbursement is synchronous with approval: the ledger
// credit happens on the Pending -> Approved transition.
const (
	LoanStatusPending   = "Pending"
	LoanStatusApproved  = "Approved"
	LoanStatusRejected  = "Rejected"
	LoanStatusDisbursed = "Disbursed"
)

// Loan application bounds.
const (
	LoanMinAmount    = 50000
	LoanMinTenure    = 12
	LoanMaxTenure    = 60
	LoanInterestRate = 18.5 // annual percentage rate
)

var LoanTypes = []string{"Personal Loan", "Car Loan", "Home Loan", "Education Loan"}

var EmploymentTypes = []string{"Salaried", "Self-Employed", "Business Owner"}

type Loan struct {
	gorm.Model
	UserID             uint    `gorm:"not null;index" json:"userId"`
	LoanType           string  `gorm:"not null" json:"loanType"`
	LoanAmount         float64 `gorm:"not null" json:"loanAmount"`
	Tenure             int     `gorm:"not null" json:"tenure"` // months
	Purpose            string  `gorm:"not null" json:"purpose"`
	MonthlyIncome      float64 `gorm:"not null" json:"monthlyIncome"`
	EmploymentType     string  `gorm:"not null" json:"employmentType"`
	CompanyName        string  `gorm:"not null" json:"companyName"`
	EmploymentDuration int     `json:"employmentDuration"` // years

	InterestRate       float64    `gorm:"default:18.5" json:"interestRate"`
	MonthlyInstallment float64    `json:"monthlyInstallment"`
	Status             string     `gorm:"default:'Pending'" json:"status"`
	ApprovedBy         *uint      `json:"approvedBy,omitempty"`
	ApprovalDate       *time.Time `json:"approvalDate,omitempty"`
	DisbursementDate   *time.Time `json:"disbursementDate,omitempty"`
	Remarks            string     `json:"remarks"`
}

// Decided reports whether the loan has reached a terminal status.
func (l *Loan) Decided() bool {
	return l.Status != LoanStatusPending
}
