package userRepo

import "evcharge/models"

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address. Returns (nil, nil)
	// if no such user exists.
	GetByEmail(email string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// Delete removes a user record by its ID.
	Delete(id string) error
	// SetPushToken stores the user's push-delivery token and device metadata.
	SetPushToken(id, token string, device models.DeviceInfo) error
	// GetPushTokens returns the distinct push tokens of all users that have
	// registered a device, for platform-wide broadcasts.
	GetPushTokens() ([]string, error)
	// SetPasswordHash replaces the user's credential hash.
	SetPasswordHash(id, hash string) error
	// AppendBookingID pushes a booking ID onto the user's derived index.
	AppendBookingID(id, bookingID string) error
}
