package handlers

import (
	"errors"

	"sahulat/internal/middleware"
	"sahulat/internal/models"
	"sahulat/internal/services/caserequest"
	"sahulat/internal/utils"
	"sahulat/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CaseRequestHandler struct {
	service caserequest.Service
}

func NewCaseRequestHandler(service caserequest.Service) *CaseRequestHandler {
	return &CaseRequestHandler{service: service}
}

type submitCaseRequest struct {
	Type      string      `json:"type" validate:"required,oneof=ChequeBook DebitCard Statement Complaint"`
	AccountID uint        `json:"accountId"`
	Payload   models.JSON `json:"payload"`
}

// Submit files a service request or complaint for the caller.
func (h *CaseRequestHandler) Submit(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var req submitCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	created, err := h.service.Submit(c.Context(), claims.UserID, caserequest.SubmitInput{
		Type:      req.Type,
		AccountID: req.AccountID,
		Payload:   req.Payload,
	})
	if err != nil {
		switch {
		case errors.Is(err, caserequest.ErrAccountNotFound):
			return utils.NotFound(c, "account not found")
		case errors.Is(err, caserequest.ErrInvalidType):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to submit request")
		}
	}
	return utils.Created(c, created)
}

// MyRequests returns the caller's service requests and complaints.
func (h *CaseRequestHandler) MyRequests(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	requests, err := h.service.ListByUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list requests")
	}
	return utils.Success(c, requests)
}

// Open lists unresolved case requests, optionally filtered by type.
// Admin only.
func (h *CaseRequestHandler) Open(c *fiber.Ctx) error {
	requests, err := h.service.ListOpen(c.Context(), c.Query("type"))
	if err != nil {
		return utils.InternalError(c, "failed to list open requests")
	}
	return utils.Success(c, requests)
}

type updateCaseRequest struct {
	Status  string `json:"status" validate:"required,oneof=Pending Processing Generated Open 'In Progress' Resolved Rejected Completed"`
	Remarks string `json:"remarks"`
}

// UpdateStatus moves a case request through its workflow. Admin only.
func (h *CaseRequestHandler) UpdateStatus(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid request id")
	}

	var req updateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	updated, err := h.service.UpdateStatus(c.Context(), uint(id), req.Status, claims.UserID, req.Remarks)
	if err != nil {
		if errors.Is(err, caserequest.ErrNotFound) {
			return utils.NotFound(c, "request not found")
		}
		return utils.InternalError(c, "failed to update request")
	}
	return utils.Success(c, updated)
}
