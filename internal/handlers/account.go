package handlers

import (
	"errors"

	"sahulat/internal/middleware"
	"sahulat/internal/services/account"
	"sahulat/internal/utils"
	"sahulat/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	service account.Service
}

func NewAccountHandler(service account.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

type openAccountRequest struct {
	AccountType string `json:"accountType" validate:"required,oneof=Savings Current Asaan"`
}

// Open creates the caller's bank account. It starts Pending until KYC
// approval.
func (h *AccountHandler) Open(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var req openAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	acc, err := h.service.Open(c.Context(), claims.UserID, req.AccountType)
	if err != nil {
		if errors.Is(err, account.ErrAlreadyHasAccount) {
			return utils.Conflict(c, "you already have an account")
		}
		return utils.InternalError(c, "failed to create account")
	}
	return utils.Created(c, acc)
}

// MyAccount returns the caller's account.
func (h *AccountHandler) MyAccount(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	acc, err := h.service.GetByOwner(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return utils.NotFound(c, "no account found")
		}
		return utils.InternalError(c, "failed to get account")
	}
	return utils.Success(c, acc)
}

// Lookup returns the limited public projection of an account, used to
// verify a transfer recipient.
func (h *AccountHandler) Lookup(c *fiber.Ctx) error {
	number := c.Params("accountNumber")
	proj, err := h.service.Lookup(c.Context(), number)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return utils.NotFound(c, "account not found")
		}
		return utils.InternalError(c, "failed to get account")
	}
	return utils.Success(c, proj)
}
