package handlers

import (
	"errors"

	"sahulat/internal/config"
	"sahulat/internal/middleware"
	"sahulat/internal/services/transfer"
	"sahulat/internal/utils"
	"sahulat/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	service transfer.Service
}

func NewTransactionHandler(service transfer.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type transferRequest struct {
	ToAccount     string  `json:"toAccount" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	RecipientName string  `json:"recipientName" validate:"required"`
	RecipientBank string  `json:"recipientBank"`
	Description   string  `json:"description"`
}

// Transfer initiates a two-phase fund transfer. The transaction stays
// Pending until the one-time code is verified.
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	txn, code, err := h.service.Initiate(c.Context(), claims.UserID, transfer.InitiateInput{
		ToAccount:     req.ToAccount,
		Amount:        req.Amount,
		RecipientName: req.RecipientName,
		RecipientBank: req.RecipientBank,
		Description:   req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrInvalidAmount),
			errors.Is(err, transfer.ErrSelfTransfer):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, transfer.ErrSenderAccountNotFound),
			errors.Is(err, transfer.ErrRecipientNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, transfer.ErrSenderNotActive),
			errors.Is(err, transfer.ErrRecipientNotActive),
			errors.Is(err, transfer.ErrInsufficientBalance):
			return utils.Respond(c, fiber.StatusUnprocessableEntity, fiber.Map{"error": err.Error()})
		default:
			return utils.InternalError(c, "failed to initiate transfer")
		}
	}

	payload := fiber.Map{
		"message":     "OTP sent. Verify to complete the transfer.",
		"transaction": txn,
	}
	// Demo deployments surface the code directly; production delivers
	// it out of band.
	if !config.IsProduction() {
		payload["simulated_otp"] = code
	}
	return utils.Created(c, payload)
}

type verifyOTPRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

// VerifyOTP commits a pending transfer.
func (h *TransactionHandler) VerifyOTP(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid transaction id")
	}

	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	txn, err := h.service.Confirm(c.Context(), uint(id), claims.UserID, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrTransactionNotFound):
			return utils.NotFound(c, "transaction not found")
		case errors.Is(err, transfer.ErrForbidden):
			return utils.Forbidden(c, "transaction does not belong to you")
		case errors.Is(err, transfer.ErrAlreadyProcessed):
			return utils.Conflict(c, "transaction already processed")
		case errors.Is(err, transfer.ErrInvalidCode),
			errors.Is(err, transfer.ErrCodeExpired):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, transfer.ErrInsufficientBalance):
			return utils.Respond(c, fiber.StatusUnprocessableEntity, fiber.Map{"error": err.Error()})
		default:
			return utils.InternalError(c, "failed to complete transfer")
		}
	}
	return utils.Success(c, fiber.Map{
		"message":     "Transfer completed",
		"transaction": txn,
	})
}

// MyTransactions returns the caller's transfer history, newest first.
func (h *TransactionHandler) MyTransactions(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	txns, err := h.service.History(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list transactions")
	}
	return utils.Success(c, txns)
}
