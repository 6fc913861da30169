package services

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/utils"

	"gorm.io/gorm"
)

// AuthService owns accounts, credentials and the email confirmation
// handshake. Session issuance stays in the handlers.
type AuthService struct {
	db               *gorm.DB
	requireConfirmed bool
}

func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{
		db:               gdb,
		requireConfirmed: os.Getenv("REQUIRE_CONFIRMED_EMAIL") == "true",
	}
}

// RequireConfirmedEmail reports whether sign-in is gated on confirmation.
func (s *AuthService) RequireConfirmedEmail() bool {
	return s.requireConfirmed
}

// CreateAccount registers a new, unconfirmed user.
func (s *AuthService) CreateAccount(email, firstName, lastName, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	user := models.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &user, nil
}

// FindByID resolves an account or reports ErrAccountNotFound.
func (s *AuthService) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &user, nil
}

// FindByEmail resolves an account or reports ErrAccountNotFound.
func (s *AuthService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &user, nil
}

// Authenticate checks credentials. An unconfirmed account fails with
// ErrEmailNotConfirmed (not ErrInvalidCredentials) when confirmation is
// required, so the UI can prompt for the confirmation mail specifically.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	if s.requireConfirmed && !user.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}

	return user, nil
}

// IssueConfirmToken mints a fresh confirmation token for the account,
// replacing any earlier one, and returns it URL-safe encoded for the
// confirmation link.
func (s *AuthService) IssueConfirmToken(user *models.User) (string, error) {
	token, err := utils.GenerateToken(24)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.db.Model(user).Update("confirm_token", token).Error; err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	user.ConfirmToken = token

	return base64.RawURLEncoding.EncodeToString([]byte(token)), nil
}

// RedeemConfirmToken marks the account's email confirmed if the encoded token
// matches the issued one. Redeeming a still-valid token on an already
// confirmed account is a no-op success; every failure leaves the account
// untouched.
func (s *AuthService) RedeemConfirmToken(userID uint, encoded string) error {
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return ErrMalformedToken
	}

	if user.ConfirmToken == "" ||
		subtle.ConstantTimeCompare(raw, []byte(user.ConfirmToken)) != 1 {
		return ErrInvalidToken
	}

	if user.EmailConfirmed {
		return nil
	}

	if err := s.db.Model(user).Update("email_confirmed", true).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	user.EmailConfirmed = true
	return nil
}
