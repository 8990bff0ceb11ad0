package models

import "time"

// DeviceInfo holds push-delivery metadata for the user's last device.
type DeviceInfo struct {
	DeviceType  string    `bson:"deviceType,omitempty" json:"deviceType,omitempty"` // "ios" or "android"
	IsEmulator  bool      `bson:"isEmulator,omitempty" json:"isEmulator,omitempty"`
	DeviceName  string    `bson:"deviceName,omitempty" json:"deviceName,omitempty"`
	DeviceID    string    `bson:"deviceId,omitempty" json:"deviceId,omitempty"`
	LastUpdated time.Time `bson:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`
}

// User is a platform account. Bookings is a derived index of booking IDs
// kept in sync with the bookings collection.
type User struct {
	ID           string     `bson:"id" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	PushToken    string     `bson:"pushToken,omitempty" json:"pushToken,omitempty"`
	DeviceInfo   DeviceInfo `bson:"deviceInfo,omitempty" json:"deviceInfo,omitempty"`
	Bookings     []string   `bson:"bookings,omitempty" json:"bookings,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}
