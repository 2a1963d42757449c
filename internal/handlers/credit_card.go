package handlers

import (
	"errors"

	"sahulat/internal/middleware"
	"sahulat/internal/services/card"
	"sahulat/internal/utils"
	"sahulat/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreditCardHandler struct {
	service card.Service
}

func NewCreditCardHandler(service card.Service) *CreditCardHandler {
	return &CreditCardHandler{service: service}
}

type applyCardRequest struct {
	CardType       string  `json:"cardType" validate:"required,oneof=Silver Gold Platinum"`
	EmploymentType string  `json:"employmentType" validate:"required,oneof=Salaried Self-Employed 'Business Owner'"`
	MonthlyIncome  float64 `json:"monthlyIncome" validate:"required,gte=25000"`
	CompanyName    string  `json:"companyName"`
	Designation    string  `json:"designation"`
	OfficeAddress  string  `json:"officeAddress"`
	RequestedLimit float64 `json:"requestedLimit" validate:"required,gt=0"`
}

// Apply files a credit card application for the caller.
func (h *CreditCardHandler) Apply(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var req applyCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	app, err := h.service.Apply(c.Context(), claims.UserID, card.ApplyInput{
		CardType:       req.CardType,
		EmploymentType: req.EmploymentType,
		MonthlyIncome:  req.MonthlyIncome,
		CompanyName:    req.CompanyName,
		Designation:    req.Designation,
		OfficeAddress:  req.OfficeAddress,
		RequestedLimit: req.RequestedLimit,
	})
	if err != nil {
		if errors.Is(err, card.ErrDuplicateActiveApplication) {
			return utils.Conflict(c, "you already have a pending or approved application")
		}
		return utils.InternalError(c, "failed to submit card application")
	}
	return utils.Created(c, app)
}

// MyCards returns the caller's card applications.
func (h *CreditCardHandler) MyCards(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	apps, err := h.service.ListByUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list card applications")
	}
	return utils.Success(c, apps)
}

// Pending lists card applications awaiting review. Admin only.
func (h *CreditCardHandler) Pending(c *fiber.Ctx) error {
	apps, err := h.service.ListPending(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to list pending card applications")
	}
	return utils.Success(c, apps)
}

type reviewCardRequest struct {
	Status        string  `json:"status" validate:"required,oneof=Approved Rejected"`
	ApprovedLimit float64 `json:"approvedLimit" validate:"gte=0"`
	Remarks       string  `json:"remarks"`
}

// Review applies an admin decision. Approval issues the card number and
// credit limit.
func (h *CreditCardHandler) Review(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid application id")
	}

	var req reviewCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	app, err := h.service.Review(c.Context(), uint(id), req.Status, claims.UserID, req.ApprovedLimit, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, card.ErrNotFound):
			return utils.NotFound(c, "application not found")
		case errors.Is(err, card.ErrAlreadyDecided):
			return utils.Conflict(c, "application already decided")
		case errors.Is(err, card.ErrInvalidDecision):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to review application")
		}
	}
	return utils.Success(c, app)
}
