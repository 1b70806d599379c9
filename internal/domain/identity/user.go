package identity

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is a staff role. Every authenticated route admits both roles; a few
// administrative routes admit only RoleAdmin.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleEmployee Role = "Employee"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// ParseRole returns the role named by s, defaulting to RoleEmployee when empty
func ParseRole(s string) (Role, error) {
	if strings.TrimSpace(s) == "" {
		return RoleEmployee, nil
	}
	r := Role(strings.TrimSpace(s))
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", "Role must be Admin or Employee")
	}
	return r, nil
}

// bcrypt work factor; tests lower it
var bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-@]+$`)

// User is a member of shop staff who can sign in
type User struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
	Role         Role
}

// NewUser creates a user with a hashed password
func NewUser(username, password string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleEmployee
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be Admin or Employee")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be Admin or Employee")
	}
	u.Role = role
	u.Touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user has the Admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRepository persists users
type UserRepository interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// FindByID finds a user or returns shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user or returns shared.ErrNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// ExistsByUsername checks whether a username is taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, '.', '_', '-' and '@'")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	// bcrypt ignores input past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
