package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/constants"
	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountLocked        = errors.New("account is locked")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication against the global identity store.
type AuthService struct {
	identityRepo repository.IdentityRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(identityRepo repository.IdentityRepository) *AuthService {
	return &AuthService{
		identityRepo: identityRepo,
	}
}

// SignupInput represents the required information to create a new identity.
type SignupInput struct {
	Email       string
	DisplayName string
	Password    string
}

// Signup creates a new global identity. Tenant affiliation is a separate
// concern; a fresh signup starts unaffiliated.
func (s *AuthService) Signup(input SignupInput) (*models.Identity, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.identityRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = email
	}

	identity := &models.Identity{
		Email:         email,
		DisplayName:   displayName,
		PasswordHash:  string(hashedPassword),
		AccountStatus: models.AccountActive,
	}

	if err := s.identityRepo.Create(identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return identity, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated identity. Locked
// and deleted accounts fail the same way credential mismatches do not: they
// get a distinguishable error so the client can explain the lockout.
func (s *AuthService) Login(input LoginInput) (*models.Identity, error) {
	identity, err := s.identityRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if identity.AccountStatus != models.AccountActive {
		return nil, ErrAccountLocked
	}

	return identity, nil
}

// GetIdentity retrieves an identity by ID.
func (s *AuthService) GetIdentity(id uint64) (*models.Identity, error) {
	identity, err := s.identityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return identity, nil
}

// SetAccountStatus transitions an identity's account status. Rows are never
// deleted; deletion is just another status.
func (s *AuthService) SetAccountStatus(id uint64, status models.AccountStatus) (*models.Identity, error) {
	identity, err := s.GetIdentity(id)
	if err != nil {
		return nil, err
	}

	identity.AccountStatus = status
	if err := s.identityRepo.Update(identity); err != nil {
		return nil, fmt.Errorf("failed to update identity: %w", err)
	}
	return identity, nil
}
