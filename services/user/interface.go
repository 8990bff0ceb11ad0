package user

import (
	userRepo "evcharge/database/repository/user"
	"evcharge/models"
)

// UserService manages accounts: registration, login, device push tokens,
// and the OTP password-reset flow.
type UserService interface {
	// Register creates an account and returns a session token.
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	// Authenticate verifies credentials and returns a session token.
	Authenticate(req models.LoginRequest) (*models.AuthResponse, error)
	// GetUser retrieves an account by ID.
	GetUser(id string) (*models.User, error)
	// UpdateProfile applies account edits and returns the updated user.
	UpdateProfile(userID string, req models.UpdateProfileRequest) (*models.User, error)
	// DeleteAccount removes the account record.
	DeleteAccount(userID string) error
	// RenewToken exchanges an expired but properly signed token for a fresh
	// session token.
	RenewToken(token string) (string, error)
	// UpdatePushToken stores the device push token used by booking
	// notifications.
	UpdatePushToken(userID string, req models.PushTokenRequest) error
	// ForgotPassword starts the OTP reset flow for the given email. Always
	// succeeds from the caller's view so account existence is not leaked.
	ForgotPassword(email string) error
	// ResetPassword verifies the OTP and replaces the password.
	ResetPassword(req models.ResetPasswordRequest) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Users userRepo.UserRepository
}
