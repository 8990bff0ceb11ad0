package booking

import (
	"context"
	"time"

	bookingRepo "evcharge/database/repository/booking"
	stationRepo "evcharge/database/repository/station"
	userRepo "evcharge/database/repository/user"
	"evcharge/models"
	"evcharge/services/payment"
)

// BookingService is the reservation ledger: payment-intent creation, slot
// admission, cancellation with refunds, and booking projections.
type BookingService interface {
	// CreatePaymentIntent validates the request, snapshots the charging
	// point, opens a payment intent with the gateway, and writes the
	// pending ledger record.
	CreatePaymentIntent(ctx context.Context, userID string, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error)
	// ConfirmBooking admits the reservation once the gateway reports the
	// intent succeeded. Idempotent per payment intent: a repeat call returns
	// the already-persisted booking.
	ConfirmBooking(ctx context.Context, userID string, req models.ConfirmBookingRequest) (*models.Booking, error)
	// CancelBooking cancels a confirmed booking owned by the user and
	// processes the policy refund.
	CancelBooking(ctx context.Context, bookingID, userID string) (*models.CancelBookingResponse, error)
	// ListBookings returns the user's booking summaries, most recent first.
	ListBookings(userID string) ([]models.BookingSummary, error)
	// ListBookedSlots returns the reserved intervals of a charging point on
	// a date, for slot-picker clients.
	ListBookedSlots(stationID, pointID, date string) ([]models.BookedSlot, error)
	// VerifySlot reports whether a candidate interval is free.
	VerifySlot(req models.VerifySlotRequest) (bool, error)
	// RebuildStationIndex recomputes a station's derived booking index from
	// the bookings collection.
	RebuildStationIndex(stationID string) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Stations stationRepo.StationRepository
	Users    userRepo.UserRepository
	Gateway  payment.Gateway

	// Currency for new payment intents, e.g. "inr".
	Currency string
	// Location resolves booking date+time strings to instants. Defaults to
	// time.Local.
	Location *time.Location
	// Clock is overridable for tests. Defaults to time.Now.
	Clock func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultBookingService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}
