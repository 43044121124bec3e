package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/domain/identity"
	"github.com/wcorders/backend/internal/domain/shared"
	"github.com/wcorders/backend/internal/infrastructure/auth"
)

// AuthService handles user registration and login.
type AuthService struct {
	userRepo identity.UserRepository
	jwt      *auth.JWTService
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwt *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		logger:   logger.Named("auth"),
	}
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

// Register creates a new account and returns an access token for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issueToken(user)
}

// Login verifies credentials and returns an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, shared.ErrUnauthorized
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *identity.User) (*AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:     token.Token,
		TokenType: token.TokenType,
		UserID:    user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
	}, nil
}
