// Package auth implements registration and credential verification.
// Passwords are stored only as bcrypt hashes and never logged.
package auth

import (
	"errors"
	"fmt"
	"log"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
	"sahulat/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateIdentity  = errors.New("user already exists with this email or CNIC")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type RegisterInput struct {
	FullName string
	Email    string
	CNIC     string
	Phone    string
	Password string
	Role     string
}

type Service interface {
	Register(input RegisterInput) (*models.User, string, error)
	Login(email, password string) (*models.User, string, error)
	GetProfile(userID uint) (*models.User, error)
}

type service struct {
	users repositories.UserRepository
}

func NewService(users repositories.UserRepository) Service {
	return &service{users: users}
}

func (s *service) Register(input RegisterInput) (*models.User, string, error) {
	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName: input.FullName,
		Email:    input.Email,
		CNIC:     input.CNIC,
		Phone:    input.Phone,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, "", ErrDuplicateIdentity
		}
		return nil, "", err
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return user, token, nil
}

func (s *service) Login(email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed for user %d: password mismatch", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return user, token, nil
}

func (s *service) GetProfile(userID uint) (*models.User, error) {
	return s.users.GetByID(userID)
}
