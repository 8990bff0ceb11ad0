package models

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the session token back to the client.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// PushTokenRequest registers the device's push-delivery token.
type PushTokenRequest struct {
	PushToken  string     `json:"pushToken" binding:"required"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
}

// UpdateProfileRequest renames the account.
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// ValidateTokenRequest checks a session token without opening a session.
type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// BroadcastRequest is an operator announcement pushed to all devices.
type BroadcastRequest struct {
	Title string            `json:"title" binding:"required"`
	Body  string            `json:"body" binding:"required"`
	Data  map[string]string `json:"data"`
}

// ForgotPasswordRequest starts the OTP password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the OTP password-reset flow.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
