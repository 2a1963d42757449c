package auth

import (
	"sync"
	"testing"

	"sahulat/internal/models"
	"sahulat/internal/repositories"
	"sahulat/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.CNIC == user.CNIC {
			return repositories.ErrDuplicateUser
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListByRole(role string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

func registerInput() RegisterInput {
	return RegisterInput{
		FullName: "Ayesha Khan",
		Email:    "ayesha@example.com",
		CNIC:     "42101-1234567-1",
		Phone:    "03001234567",
		Password: "s3cret-pass",
	}
}

func TestRegister(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(newFakeUserRepo())

	user, token, err := svc.Register(registerInput())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleCustomer, user.Role, "role defaults to Customer")
	assert.True(t, user.IsActive)

	// The stored password is a bcrypt hash, not the plaintext.
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")))

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleCustomer, claims.Role)
}

func TestRegisterStaffRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(newFakeUserRepo())

	input := registerInput()
	input.Role = models.RoleStaff
	user, _, err := svc.Register(input)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role)
}

func TestRegisterDuplicate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(newFakeUserRepo())

	_, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	t.Run("same email", func(t *testing.T) {
		input := registerInput()
		input.CNIC = "42101-7654321-9"
		_, _, err := svc.Register(input)
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})

	t.Run("same cnic", func(t *testing.T) {
		input := registerInput()
		input.Email = "other@example.com"
		_, _, err := svc.Register(input)
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(newFakeUserRepo())

	registered, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, token, err := svc.Login("ayesha@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login("ayesha@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login("nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetProfile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(newFakeUserRepo())

	registered, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	user, err := svc.GetProfile(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayesha Khan", user.FullName)
}
