package handlers

import (
	"errors"

	"sahulat/internal/middleware"
	"sahulat/internal/services/auth"
	"sahulat/internal/utils"
	"sahulat/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type registerRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	CNIC     string `json:"cnic" validate:"required,cnic"`
	Phone    string `json:"phone" validate:"required,pkphone"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=Customer Staff"`
}

// Register creates a user account and returns a session token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	user, token, err := h.service.Register(auth.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		CNIC:     req.CNIC,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateIdentity) {
			return utils.Conflict(c, err.Error())
		}
		return utils.InternalError(c, "registration failed")
	}

	return utils.Created(c, fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "details": errs})
	}

	user, token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, "invalid email or password")
		}
		return utils.InternalError(c, "login failed")
	}

	return utils.Success(c, fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	user, err := h.service.GetProfile(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to get profile")
	}
	return utils.Success(c, user.Public())
}
