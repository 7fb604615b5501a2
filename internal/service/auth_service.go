package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles staff registration, login and account approval
type AuthService struct {
	userRepo     domain.UserRepository
	tokenService *TokenService
	hashCost     int
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, tokenService *TokenService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		hashCost:     bcrypt.DefaultCost,
	}
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the signed-in user and their tokens
type LoginResponse struct {
	User   *domain.User
	Tokens *TokenPair
}

// Register creates an unverified staff account. An admin has to verify it
// before it can sign in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req.Username, req.Email, req.Password, domain.RoleUser, false)
}

// EnsureAdmin creates the admin account unless one with the same username or
// email exists. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if _, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	if _, err := s.createUser(ctx, username, email, password, domain.RoleAdmin, true); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password, role string, verified bool) (*domain.User, error) {
	if _, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, domain.ErrDuplicateUser
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Verified:     verified,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a token pair. Unverified non-admin
// accounts are refused.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, userAgent, ipAddress string) (*LoginResponse, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.CanLogin() {
		return nil, domain.ErrAccountNotVerified
	}

	tokens, err := s.tokenService.GenerateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error) {
	return s.tokenService.RefreshAccessToken(ctx, refreshToken, userAgent, ipAddress)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenService.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// VerifyUser approves a staff account so it can sign in.
func (s *AuthService) VerifyUser(ctx context.Context, id string) (*domain.User, error) {
	if err := s.userRepo.SetVerified(ctx, id, true); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return s.Me(ctx, id)
}
