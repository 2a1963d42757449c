package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsStaff reports whether the claims belong to a Staff or Admin user.
func (c *UserClaims) IsStaff() bool {
	return c.Role == RoleStaff || c.Role == RoleAdmin
}
