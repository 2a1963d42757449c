package models

import "gorm.io/gorm"

// Case request types. These cover the non-monetary service requests
// that share a submit/list/decide lifecycle.
const (
	CaseTypeChequeBook = "ChequeBook"
	CaseTypeDebitCard  = "DebitCard"
	CaseTypeStatement  = "Statement"
	CaseTypeComplaint  = "Complaint"
)

// Statuses. Each type uses its own subset.
const (
	CaseStatusPending    = "Pending"
	CaseStatusProcessing = "Processing"
	CaseStatusGenerated  = "Generated"
	CaseStatusOpen       = "Open"
	CaseStatusInProgress = "In Progress"
	CaseStatusResolved   = "Resolved"
	CaseStatusRejected   = "Rejected"
	CaseStatusCompleted  = "Completed"
)

// CaseRequest is the generic record behind cheque-book, debit-card,
// statement and complaint workflows. The type-specific fields live in
// Payload; no cross-entity invariants apply.
type CaseRequest struct {
	gorm.Model
	UserID        uint   `gorm:"not null;index" json:"userId"`
	AccountID     *uint  `json:"accountId,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Type          string `gorm:"not null;index" json:"type"`
	Payload       JSON   `gorm:"type:jsonb" json:"payload"`
	Status        string `gorm:"not null" json:"status"`
	HandledBy     *uint  `json:"handledBy,omitempty"`
	Remarks       string `json:"remarks"`
}
