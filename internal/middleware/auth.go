// Package middleware provides HTTP middleware for the fiber app:
// bearer-token authentication and role gates.
package middleware

import (
	"log"
	"strings"

	"sahulat/internal/models"
	"sahulat/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Authenticate validates the bearer token and stores the claims in the
// request context.
func Authenticate(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// RequireAdmin allows only Admin-role callers through.
func RequireAdmin(c *fiber.Ctx) error {
	claims := Claims(c)
	if claims == nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if claims.Role != models.RoleAdmin {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}

// RequireStaff allows Staff and Admin callers through.
func RequireStaff(c *fiber.Ctx) error {
	claims := Claims(c)
	if claims == nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if !claims.IsStaff() {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}

// Claims extracts the authenticated user claims from the context.
func Claims(c *fiber.Ctx) *models.UserClaims {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
