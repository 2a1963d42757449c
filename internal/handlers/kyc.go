package handlers

import (
	"errors"
	"time"

	"sahulat/internal/middleware"
	"sahulat/internal/services/kyc"
	"sahulat/internal/utils"
	"sahulat/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type KYCHandler struct {
	service kyc.Service
}

func NewKYCHandler(service kyc.Service) *KYCHandler {
	return &KYCHandler{service: service}
}

type submitKYCRequest struct {
	AccountID     uint   `json:"accountId" validate:"required"`
	FatherName    string `json:"fatherName" validate:"required"`
	DateOfBirth   string `json:"dateOfBirth" validate:"required"`
	Street        string `json:"street"`
	City          string `json:"city"`
	Province      string `json:"province"`
	PostalCode    string `json:"postalCode"`
	Occupation    string `json:"occupation" validate:"required"`
	MonthlyIncome string `json:"monthlyIncome" validate:"required,oneof='Below 25k' '25k-50k' '50k-100k' '100k-200k' 'Above 200k'"`
}

// Submit files a KYC record for the caller's account.
func (h *KYCHandler) Submit(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var req submitKYCRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return utils.BadRequest(c, "dateOfBirth must be YYYY-MM-DD")
	}

	record, err := h.service.Submit(c.Context(), claims.UserID, kyc.SubmitInput{
		AccountID:     req.AccountID,
		FatherName:    req.FatherName,
		DateOfBirth:   dob,
		Street:        req.Street,
		City:          req.City,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
		Occupation:    req.Occupation,
		MonthlyIncome: req.MonthlyIncome,
	})
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrAccountNotFound):
			return utils.NotFound(c, "account not found")
		case errors.Is(err, kyc.ErrDuplicateKYC):
			return utils.Conflict(c, "KYC already submitted for this account")
		default:
			return utils.InternalError(c, "failed to submit KYC")
		}
	}
	return utils.Created(c, record)
}

// MyKYC returns the caller's KYC record.
func (h *KYCHandler) MyKYC(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	record, err := h.service.GetByUser(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, kyc.ErrNotFound) {
			return utils.NotFound(c, "no KYC record found")
		}
		return utils.InternalError(c, "failed to get KYC")
	}
	return utils.Success(c, record)
}

// Pending lists KYC records awaiting review. Admin only.
func (h *KYCHandler) Pending(c *fiber.Ctx) error {
	records, err := h.service.ListPending(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to list pending KYC records")
	}
	return utils.Success(c, records)
}

type decideKYCRequest struct {
	Status  string `json:"status" validate:"required,oneof=Approved Rejected"`
	Remarks string `json:"remarks"`
}

// Verify applies an admin decision to a KYC record.
func (h *KYCHandler) Verify(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid kyc id")
	}

	var req decideKYCRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	record, err := h.service.Decide(c.Context(), uint(id), req.Status, claims.UserID, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrNotFound):
			return utils.NotFound(c, "KYC record not found")
		case errors.Is(err, kyc.ErrAlreadyDecided):
			return utils.Conflict(c, "KYC record already decided")
		case errors.Is(err, kyc.ErrInvalidDecision):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to verify KYC")
		}
	}
	return utils.Success(c, record)
}
