package handlers

import (
	"errors"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
	"sahulat/internal/services/account"
	"sahulat/internal/services/caserequest"
	"sahulat/internal/utils"
	"sahulat/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the back-office surface: the dashboard counters,
// the pending-work queues and customer management.
type AdminHandler struct {
	users    repositories.UserRepository
	accounts repositories.AccountRepository
	kyc      repositories.KYCRepository
	loans    repositories.LoanRepository
	cards    repositories.CreditCardRepository
	ledger   account.Service
	cases    caserequest.Service
}

func NewAdminHandler(
	users repositories.UserRepository,
	accounts repositories.AccountRepository,
	kyc repositories.KYCRepository,
	loans repositories.LoanRepository,
	cards repositories.CreditCardRepository,
	ledger account.Service,
	cases caserequest.Service,
) *AdminHandler {
	return &AdminHandler{
		users:    users,
		accounts: accounts,
		kyc:      kyc,
		loans:    loans,
		cards:    cards,
		ledger:   ledger,
		cases:    cases,
	}
}

// Dashboard returns the work counters shown on the admin landing page.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	pendingKYC, err := h.kyc.CountPending()
	if err != nil {
		return utils.InternalError(c, "failed to load dashboard")
	}
	pendingLoans, err := h.loans.CountPending()
	if err != nil {
		return utils.InternalError(c, "failed to load dashboard")
	}
	pendingCards, err := h.cards.CountPending()
	if err != nil {
		return utils.InternalError(c, "failed to load dashboard")
	}
	openComplaints, err := h.cases.CountOpenComplaints(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to load dashboard")
	}
	activeAccounts, err := h.accounts.CountByStatus(models.AccountStatusActive)
	if err != nil {
		return utils.InternalError(c, "failed to load dashboard")
	}
	pendingAccounts, err := h.accounts.CountByStatus(models.AccountStatusPending)
	if err != nil {
		return utils.InternalError(c, "failed to load dashboard")
	}

	return utils.Success(c, fiber.Map{
		"pendingKyc":      pendingKYC,
		"pendingLoans":    pendingLoans,
		"pendingCards":    pendingCards,
		"openComplaints":  openComplaints,
		"activeAccounts":  activeAccounts,
		"pendingAccounts": pendingAccounts,
	})
}

// PendingRequests aggregates the newest items of every review queue.
func (h *AdminHandler) PendingRequests(c *fiber.Ctx) error {
	const limit = 10

	kycRecords, err := h.kyc.ListPending(limit)
	if err != nil {
		return utils.InternalError(c, "failed to list pending requests")
	}
	loans, err := h.loans.ListPending(limit)
	if err != nil {
		return utils.InternalError(c, "failed to list pending requests")
	}
	cards, err := h.cards.ListPending(limit)
	if err != nil {
		return utils.InternalError(c, "failed to list pending requests")
	}

	return utils.Success(c, fiber.Map{
		"kyc":         kycRecords,
		"loans":       loans,
		"creditCards": cards,
	})
}

type customerSummary struct {
	models.PublicProfile
	Account *models.Account `json:"account,omitempty"`
}

// Customers lists all customers with their account, if any.
func (h *AdminHandler) Customers(c *fiber.Ctx) error {
	users, err := h.users.ListByRole(models.RoleCustomer)
	if err != nil {
		return utils.InternalError(c, "failed to list customers")
	}

	customers := make([]customerSummary, 0, len(users))
	for i := range users {
		summary := customerSummary{PublicProfile: users[i].Public()}
		if acct, err := h.accounts.GetByUserID(users[i].ID); err == nil {
			summary.Account = acct
		}
		customers = append(customers, summary)
	}
	return utils.Success(c, customers)
}

type adjustBalanceRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Operation string  `json:"operation" validate:"required,oneof=add deduct"`
}

// AdjustBalance is the manual add/deduct path for a customer's account.
func (h *AdminHandler) AdjustBalance(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil || userID <= 0 {
		return utils.BadRequest(c, "invalid user id")
	}

	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	previous, current, err := h.ledger.AdjustBalance(c.Context(), uint(userID), req.Amount, req.Operation)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAccountNotFound):
			return utils.NotFound(c, "customer has no account")
		case errors.Is(err, account.ErrInsufficientBalance):
			return utils.Respond(c, fiber.StatusUnprocessableEntity, fiber.Map{"error": "insufficient balance"})
		case errors.Is(err, account.ErrInvalidOperation):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to adjust balance")
		}
	}
	return utils.Success(c, fiber.Map{
		"message":         "Balance adjusted",
		"previousBalance": previous,
		"currentBalance":  current,
	})
}
