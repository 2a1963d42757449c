package handlers

import (
	"errors"

	"sahulat/internal/middleware"
	"sahulat/internal/services/loan"
	"sahulat/internal/utils"
	"sahulat/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type LoanHandler struct {
	service loan.Service
}

func NewLoanHandler(service loan.Service) *LoanHandler {
	return &LoanHandler{service: service}
}

type applyLoanRequest struct {
	LoanType           string  `json:"loanType" validate:"required,oneof='Personal Loan' 'Car Loan' 'Home Loan' 'Education Loan'"`
	LoanAmount         float64 `json:"loanAmount" validate:"required,gte=50000"`
	Tenure             int     `json:"tenure" validate:"required,gte=12,lte=60"`
	Purpose            string  `json:"purpose" validate:"required"`
	MonthlyIncome      float64 `json:"monthlyIncome" validate:"required,gt=0"`
	EmploymentType     string  `json:"employmentType" validate:"required,oneof=Salaried Self-Employed 'Business Owner'"`
	CompanyName        string  `json:"companyName" validate:"required"`
	EmploymentDuration int     `json:"employmentDuration" validate:"gte=0"`
}

// Apply files a loan application for the caller.
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var req applyLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	application, err := h.service.Apply(c.Context(), claims.UserID, loan.ApplyInput{
		LoanType:           req.LoanType,
		LoanAmount:         req.LoanAmount,
		Tenure:             req.Tenure,
		Purpose:            req.Purpose,
		MonthlyIncome:      req.MonthlyIncome,
		EmploymentType:     req.EmploymentType,
		CompanyName:        req.CompanyName,
		EmploymentDuration: req.EmploymentDuration,
	})
	if err != nil {
		if errors.Is(err, loan.ErrDuplicateActiveLoan) {
			return utils.Conflict(c, "you already have a pending or approved loan")
		}
		return utils.InternalError(c, "failed to submit loan application")
	}
	return utils.Created(c, application)
}

// MyLoans returns the caller's loan applications.
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	loans, err := h.service.ListByUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list loans")
	}
	return utils.Success(c, loans)
}

// Pending lists loan applications awaiting review. Admin only.
func (h *LoanHandler) Pending(c *fiber.Ctx) error {
	loans, err := h.service.ListPending(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to list pending loans")
	}
	return utils.Success(c, loans)
}

type decideLoanRequest struct {
	Status  string `json:"status" validate:"required,oneof=Approved Rejected"`
	Remarks string `json:"remarks"`
}

// Review applies an admin decision. Approval disburses the principal to
// the borrower's account.
func (h *LoanHandler) Review(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid loan id")
	}

	var req decideLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	application, err := h.service.Decide(c.Context(), uint(id), req.Status, claims.UserID, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, loan.ErrNotFound):
			return utils.NotFound(c, "loan not found")
		case errors.Is(err, loan.ErrAlreadyDecided):
			return utils.Conflict(c, "loan already decided")
		case errors.Is(err, loan.ErrNoLedgerAccount):
			return utils.Respond(c, fiber.StatusUnprocessableEntity, fiber.Map{"error": "borrower has no account to disburse into"})
		case errors.Is(err, loan.ErrInvalidDecision):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to decide loan")
		}
	}
	return utils.Success(c, application)
}
