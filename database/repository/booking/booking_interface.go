package bookingRepo

import (
	"errors"
	"time"

	"evcharge/models"
)

// ErrNotPending reports that a confirmation write matched no pending
// booking, meaning a concurrent confirmation already promoted it.
var ErrNotPending = errors.New("booking is not pending")

// BookingRepository defines data access for reservation records.
type BookingRepository interface {
	// Create inserts a new booking. Returns a duplicate-key error if the
	// payment intent, booking ref, or admission slot key already exists.
	Create(booking *models.Booking) error
	// ConfirmPending promotes a pending booking to confirmed in a single
	// conditional write that also sets the admission slot key. Returns a
	// duplicate-key error if the slot key is taken, or ErrNotPending if the
	// booking is no longer pending.
	ConfirmPending(booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(id string) (*models.Booking, error)
	// GetByPaymentIntentID retrieves the booking bound to a payment intent.
	// Returns (nil, nil) if none exists.
	GetByPaymentIntentID(intentID string) (*models.Booking, error)
	// GetOwned retrieves a booking only if it belongs to the given user.
	GetOwned(id, userID string) (*models.Booking, error)
	// GetByUser retrieves all bookings of a user, most recent first.
	GetByUser(userID string) ([]models.Booking, error)
	// GetAdmittedForSlot retrieves the bookings that count for slot conflict
	// purposes on a charging point and date: payment completed and booking
	// status confirmed or ongoing.
	GetAdmittedForSlot(stationID, pointID, date string) ([]models.Booking, error)
	// GetSweepCandidates retrieves paid, non-cancelled bookings on any of the
	// given calendar dates, for the notification sweep.
	GetSweepCandidates(dates []string) ([]models.Booking, error)
	// GetActiveByStation retrieves a station's admitted bookings; used to
	// rebuild the station's derived booking index.
	GetActiveByStation(stationID string) ([]models.Booking, error)
	// MarkCancelled flips a booking to cancelled, records the refund outcome,
	// and releases its admission slot key.
	MarkCancelled(id, refundStatus string, refundAmount float64, refundDate time.Time) error
	// MarkCompleted flips a confirmed booking to completed once its window
	// has passed. A no-op if the booking was cancelled meanwhile.
	MarkCompleted(id string) error
	// ClaimNotificationFlag atomically sets one of the notification-sent
	// timestamps if it is still unset and the booking is not cancelled.
	// Returns true iff this call won the claim.
	ClaimNotificationFlag(id, flag string, at time.Time) (bool, error)
}

// Notification flag field names accepted by ClaimNotificationFlag.
const (
	FlagTenMinWarning = "tenMinWarningSentAt"
	FlagStart         = "startSentAt"
	FlagExpired       = "expiredSentAt"
)
