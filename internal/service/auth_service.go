package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vlabgallery/internal/auth"
	"vlabgallery/internal/model"
	"vlabgallery/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("User already exists")
	// ErrInvalidToken is returned when a token presented for logout is unusable.
	ErrInvalidToken = errors.New("Invalid or expired token")
)

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role auth.Role) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, role auth.Role, err error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with hashed password and the given role.
func (s *authService) Register(ctx context.Context, name, email, password string, role auth.Role) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role.String(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns a role-scoped access token.
func (s *authService) Login(ctx context.Context, email, password string) (string, auth.Role, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	role, err := auth.ParseRole(user.Role)
	if err != nil {
		// A stored role outside the known set means the record was tampered
		// with out of band; refuse to mint a token for it.
		return "", "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, role)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}

	return token, role, nil
}

// Logout denylists the presented token until its natural expiry. Tokens
// without a jti or already expired are rejected as invalid.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	return s.tokenStore.DenyToken(ctx, claims.ID, ttl)
}
