package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/pkg/utils"
)

// RegisterInput is a new account
type RegisterInput struct {
	Email      string
	Password   string
	FullName   string
	Company    string
	Position   string
	Department string
	Phone      string
}

// ProfileInput holds the editable profile fields
type ProfileInput struct {
	FullName   string
	Company    string
	Position   string
	Department string
	Phone      string
}

// LoginResult is an issued access token
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// AuthService manages accounts and access tokens
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Authenticate resolves a token to its user, or domain.ErrUnauthorized
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	GetProfile(ctx context.Context, userID int64) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*entity.User, error)
}

type authServiceImpl struct {
	userRepo port.UserRepository
	hasher   port.PasswordHasher
	tokens   port.TokenIssuer
	logger   Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo port.UserRepository, hasher port.PasswordHasher, tokens port.TokenIssuer, logger Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := utils.ValidateEmail(email); err != nil {
		return nil, domain.ValidationError{Field: "email", Msg: "invalid email address", Err: err}
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, domain.ValidationError{Field: "password", Msg: err.Error()}
	}
	fullName := utils.SanitizeString(in.FullName)
	if fullName == "" {
		return nil, domain.ValidationError{Field: "full_name", Msg: "is required"}
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Company:      utils.SanitizeString(in.Company),
		Position:     utils.SanitizeString(in.Position),
		Department:   utils.SanitizeString(in.Department),
		Phone:        utils.SanitizeString(in.Phone),
		Role:         entity.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", "email", email, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || s.hasher.Compare(user.PasswordHash, password) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (s *authServiceImpl) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, domain.NotFoundError{Resource: "user", ID: userID}
	}
	return user, nil
}

func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*entity.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	fullName := utils.SanitizeString(in.FullName)
	if fullName == "" {
		return nil, domain.ValidationError{Field: "full_name", Msg: "is required"}
	}
	user.FullName = fullName
	user.Company = utils.SanitizeString(in.Company)
	user.Position = utils.SanitizeString(in.Position)
	user.Department = utils.SanitizeString(in.Department)
	user.Phone = utils.SanitizeString(in.Phone)

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
