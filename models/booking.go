package models

import "time"

// Payment status of a booking.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Booking lifecycle status.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusOngoing   = "ongoing"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Refund status of a cancelled booking.
const (
	RefundStatusNone      = "none"
	RefundStatusPending   = "pending"
	RefundStatusProcessed = "processed"
	RefundStatusFailed    = "failed"
)

// PointSnapshot is a denormalized copy of the charging point taken at
// booking time. Later changes to the station do not affect past bookings.
type PointSnapshot struct {
	PointID       string  `bson:"pointId" json:"pointId"`
	Type          string  `bson:"type" json:"type"`
	Power         string  `bson:"power" json:"power"`
	Price         float64 `bson:"price" json:"price"`
	ConnectorType string  `bson:"connectorType" json:"connectorType"`
}

// NotificationState tracks which reservation notifications have gone out.
// Each field transitions once from nil to a timestamp and never resets.
type NotificationState struct {
	TenMinWarningSentAt *time.Time `bson:"tenMinWarningSentAt,omitempty" json:"tenMinWarningSentAt,omitempty"`
	StartSentAt         *time.Time `bson:"startSentAt,omitempty" json:"startSentAt,omitempty"`
	ExpiredSentAt       *time.Time `bson:"expiredSentAt,omitempty" json:"expiredSentAt,omitempty"`
}

// Booking is the authoritative reservation record.
type Booking struct {
	ID             string  `bson:"id" json:"id"`
	BookingRef     string  `bson:"bookingRef" json:"bookingRef"`
	UserID         string  `bson:"userId" json:"userId"`
	UserEmail      string  `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	StationID      string  `bson:"stationId" json:"stationId"`
	StationName    string  `bson:"stationName" json:"stationName"`
	StationAddress string  `bson:"stationAddress" json:"stationAddress"`
	Latitude       float64 `bson:"latitude" json:"latitude"`
	Longitude      float64 `bson:"longitude" json:"longitude"`

	ChargingPoint  PointSnapshot `bson:"chargingPoint" json:"chargingPoint"`
	VehiclePlateNo string        `bson:"vehiclePlateNo,omitempty" json:"vehiclePlateNo,omitempty"`

	Date      string `bson:"date" json:"date"`           // "2006-01-02"
	StartTime string `bson:"startTime" json:"startTime"` // "15:04" 24h
	EndTime   string `bson:"endTime" json:"endTime"`
	Duration  int    `bson:"duration" json:"duration"` // minutes

	// SlotKey is the admission key (pointId|date|startTime). A unique sparse
	// index on it makes slot admission a single conditional write; it is
	// unset when the booking is cancelled so the slot frees up.
	SlotKey string `bson:"slotKey,omitempty" json:"-"`

	Amount          float64 `bson:"amount" json:"amount"`
	Currency        string  `bson:"currency" json:"currency"`
	PaymentIntentID string  `bson:"paymentIntentId" json:"paymentIntentId"`
	PaymentStatus   string  `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod   string  `bson:"paymentMethod" json:"paymentMethod"`
	BookingStatus   string  `bson:"bookingStatus" json:"bookingStatus"`

	RefundStatus string     `bson:"refundStatus" json:"refundStatus"`
	RefundAmount float64    `bson:"refundAmount,omitempty" json:"refundAmount,omitempty"`
	RefundDate   *time.Time `bson:"refundDate,omitempty" json:"refundDate,omitempty"`

	Notifications NotificationState `bson:"notifications" json:"notifications"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingSummary is the projection returned to booking list endpoints.
type BookingSummary struct {
	BookingRef     string  `json:"bookingRef"`
	StationName    string  `json:"stationName"`
	StationAddress string  `json:"stationAddress"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Duration       int     `json:"duration"`
	Amount         float64 `json:"amount"`
	PaymentStatus  string  `json:"paymentStatus"`
	BookingStatus  string  `json:"bookingStatus"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	VehiclePlateNo string  `json:"vehiclePlateNo,omitempty"`
}

// BookedSlot is a reserved interval on a charging point, as exposed to
// slot-picker clients.
type BookedSlot struct {
	PointID   string `json:"chargingPointId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"`
}
