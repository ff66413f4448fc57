package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	s.logger.Info("Registering user", "email", req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}
	// Admin accounts are provisioned out of band, never via self-registration
	if role == models.RoleAdmin {
		return nil, validator.ValidationErrors{{
			Field:   "role",
			Message: "cannot self-register as admin",
			Value:   req.Role,
			Rule:    "business_logic",
		}}
	}

	if _, err := s.repo.Profile().GetByEmail(ctx, nil, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	uid, err := s.repo.Identity().CreateAccount(ctx, req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	user := &models.User{
		ID:          uid,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        role,
	}

	if err := s.repo.Profile().Create(ctx, nil, user); err != nil {
		// Roll back the upstream account so the email stays usable
		if delErr := s.repo.Identity().DeleteAccount(ctx, uid); delErr != nil {
			s.logger.Error("Failed to roll back identity account", "uid", uid, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.EventUserRegistered, events.UserRegisteredEvent{
		UserID: uid,
		Email:  req.Email,
		Role:   string(role),
	}); err != nil {
		s.logger.Warn("Failed to publish registration event", "uid", uid, "error", err)
	}

	s.logger.Info("User registered", "uid", uid, "role", role)
	return &RegisterResponse{UID: uid, User: user}, nil
}

// Login exchanges credentials for a token. Any upstream failure surfaces as
// an authentication error; there is no fallback identity.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	result, err := s.repo.Identity().SignIn(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Sign-in rejected", "email", req.Email, "error", err)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User signed in", "uid", result.UserID)
	return &AuthResult{Token: result.Token, UID: result.UserID}, nil
}
