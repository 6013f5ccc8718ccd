package service

import (
	"context"
	"errors"
	"strings"

	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles accounts: registration, credential checks, profile
// edits, and role changes. Reputation is read-only here; only the vote
// ledger writes it.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterInput carries signup fields.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileInput carries the editable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	Bio    *string `json:"bio,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Register creates a new account with the user role.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Username or email already taken")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a username and password. The error is the same for
// an unknown user and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", id)
		}
		return nil, err
	}
	return user, nil
}

// GetUserByUsername returns a user by username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", username)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile edits the caller's own bio and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Bio != nil {
		if len(*input.Bio) > 500 {
			return nil, models.NewValidationError("Bio must be at most 500 characters")
		}
		user.Bio = *input.Bio
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes a user's role. The handler restricts this to admins; an
// admin cannot change their own role, which keeps at least one admin around.
func (s *UserService) SetRole(ctx context.Context, actorID, userID uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("Unknown role")
	}
	if actorID == userID {
		return nil, models.NewForbiddenError("You cannot change your own role")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}
