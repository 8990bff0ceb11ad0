package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "evcharge/database/repository/booking"
	"evcharge/models"
	"evcharge/services/payment"
	"evcharge/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmBooking admits a reservation after its payment intent succeeded.
//
// Admission is guarded twice: the in-memory overlap check against the
// admitted bookings of the point and date, and the unique sparse index on
// slotKey that turns the final insert into a conditional write. Two racing
// confirmations for the same slot both pass the read-side check at most, but
// only one insert lands; the loser sees a duplicate key and is reported a
// conflict. Repeat calls with an already-persisted payment intent return the
// existing booking unchanged.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, userID string, req models.ConfirmBookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	if req.PaymentIntentID == "" {
		return nil, NewValidationError("paymentIntentId is required")
	}
	if !validDate(req.Date) {
		return nil, NewValidationError("invalid date %q: want YYYY-MM-DD", req.Date)
	}
	startTime, err := To24Hour(req.StartTime)
	if err != nil {
		return nil, NewValidationError("invalid start time: %v", err)
	}
	candidate, err := candidateInterval(startTime, req.Duration)
	if err != nil {
		return nil, err
	}

	// Idempotency: an already-promoted booking for this intent is the answer.
	// A pending record is the ledger entry written at intent creation and is
	// promoted in place below.
	existing, err := s.Bookings.GetByPaymentIntentID(req.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}
	if existing != nil && existing.BookingStatus != models.BookingStatusPending {
		logger.Info("confirm repeated for persisted intent",
			zap.String("paymentIntentId", req.PaymentIntentID),
			zap.String("bookingRef", existing.BookingRef))
		return existing, nil
	}

	intent, err := s.Gateway.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, NewPaymentError("failed to verify payment intent: %v", err)
	}
	if intent.Status != payment.IntentSucceeded {
		return nil, NewPaymentError("payment not completed, intent status is %q", intent.Status)
	}

	station, err := s.Stations.GetByID(req.StationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load station: %w", err)
	}
	if station == nil {
		return nil, NewNotFoundError("station %s not found", req.StationID)
	}
	point := findPoint(station, req.ChargingPointID)
	if point == nil {
		return nil, NewNotFoundError("charging point %s not found on station %s", req.ChargingPointID, req.StationID)
	}

	admitted, err := s.Bookings.GetAdmittedForSlot(req.StationID, req.ChargingPointID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load admitted bookings: %w", err)
	}
	intervals, err := admittedIntervals(admitted)
	if err != nil {
		return nil, err
	}
	if ConflictsWithAny(candidate, intervals) {
		return nil, NewConflictError("slot %s-%s on %s is already booked",
			FormatClock(candidate.Start), FormatClock(candidate.End), req.Date)
	}

	now := s.now()
	b := models.Booking{
		ID:             uuid.NewString(),
		BookingRef:     newBookingRef(),
		CreatedAt:      now,
		UserID:         userID,
		UserEmail:      req.UserEmail,
		StationID:      station.ID,
		StationName:    station.Name,
		StationAddress: station.Address,
		Latitude:       station.Location.Latitude,
		Longitude:      station.Location.Longitude,

		ChargingPoint:  snapshotOf(point),
		VehiclePlateNo: req.VehiclePlateNo,

		Date:      req.Date,
		StartTime: startTime,
		EndTime:   FormatClock(candidate.End),
		Duration:  req.Duration,
		SlotKey:   slotKeyFor(req.ChargingPointID, req.Date, startTime),

		Amount:          req.Amount,
		Currency:        s.Currency,
		PaymentIntentID: req.PaymentIntentID,
		PaymentStatus:   models.PaymentStatusCompleted,
		PaymentMethod:   "card",
		BookingStatus:   models.BookingStatusConfirmed,
		RefundStatus:    models.RefundStatusNone,

		UpdatedAt: now,
	}
	if existing != nil {
		b.ID = existing.ID
		b.BookingRef = existing.BookingRef
		b.CreatedAt = existing.CreatedAt
	}

	if existing != nil {
		err = s.Bookings.ConfirmPending(&b)
	} else {
		err = s.Bookings.Create(&b)
	}
	if err != nil {
		if bookingRepo.IsDuplicateKey(err) {
			// The slot key collided with a concurrent write, or this same
			// intent landed between our idempotency read and the write.
			if won, qerr := s.Bookings.GetByPaymentIntentID(req.PaymentIntentID); qerr == nil && won != nil && won.BookingStatus != models.BookingStatusPending {
				return won, nil
			}
			return nil, NewConflictError("slot %s-%s on %s is already booked",
				FormatClock(candidate.Start), FormatClock(candidate.End), req.Date)
		}
		if errors.Is(err, bookingRepo.ErrNotPending) {
			// A concurrent confirm promoted the record first.
			if won, qerr := s.Bookings.GetByPaymentIntentID(req.PaymentIntentID); qerr == nil && won != nil {
				return won, nil
			}
			return nil, fmt.Errorf("failed to promote pending booking: %w", err)
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	// Derived indexes are caches; failures here never roll back the booking.
	if err := s.Stations.AppendBookingRef(station.ID, stationRefOf(b)); err != nil {
		logger.Warn("failed to append station booking ref",
			zap.String("stationId", station.ID), zap.String("bookingId", b.ID), zap.Error(err))
	}
	if err := s.Users.AppendBookingID(userID, b.ID); err != nil {
		logger.Warn("failed to append user booking id",
			zap.String("userId", userID), zap.String("bookingId", b.ID), zap.Error(err))
	}

	logger.Info("booking confirmed",
		zap.String("bookingRef", b.BookingRef),
		zap.String("stationId", station.ID),
		zap.String("pointId", req.ChargingPointID),
		zap.String("date", req.Date),
		zap.String("slot", startTime+"-"+b.EndTime))
	return &b, nil
}
