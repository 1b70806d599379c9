package identity

import (
	"context"
	"errors"

	"github.com/silverledger/backend/internal/domain/identity"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles registration, login and token checks
type AuthService struct {
	users      identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(users identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a user and signs them in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	user, err := identity.NewUser(req.Username, req.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)
	return s.issue(user)
}

// Login checks the credentials and returns a new session token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Login for unknown user", zap.String("username", req.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Login with wrong password", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Authenticate validates a token and loads its user, so a deleted user's
// token stops working immediately
func (s *AuthService) Authenticate(ctx context.Context, token string) (*UserResponse, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
		}
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token is invalid")
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token is invalid")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_TOKEN", "User no longer exists")
		}
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// SeedAdmin creates an Admin user, or resets the password and role of an
// existing one
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) (*UserResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if err := user.SetPassword(password); err != nil {
			return nil, err
		}
		if err := user.SetRole(identity.RoleAdmin); err != nil {
			return nil, err
		}
	case shared.IsNotFound(err):
		user, err = identity.NewUser(username, password, identity.RoleAdmin)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Admin user seeded", zap.String("username", user.Username))
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Role:      string(user.Role),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}, nil
}
