package booking

import (
	"context"
	"fmt"

	"evcharge/models"
	"evcharge/utils"

	"go.uber.org/zap"
)

// CancelBooking cancels a confirmed booking owned by the user and processes
// the policy refund. The slot key is released as part of the cancellation
// write, so the window immediately becomes bookable again.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*models.CancelBookingResponse, error) {
	logger := utils.GetLogger()

	b, err := s.Bookings.GetOwned(bookingID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b == nil {
		return nil, NewNotFoundError("booking %s not found", bookingID)
	}
	if b.BookingStatus != models.BookingStatusConfirmed {
		return nil, NewInvalidStateError("booking %s is %s and cannot be cancelled", b.BookingRef, b.BookingStatus)
	}

	startAt, err := bookingStartAt(b.Date, b.StartTime, s.location())
	if err != nil {
		return nil, err
	}
	hoursUntil := startAt.Sub(s.now()).Hours()
	refundAmount := RefundAmount(b.Amount, hoursUntil)

	refundStatus := models.RefundStatusNone
	if refundAmount > 0 {
		refundStatus = models.RefundStatusProcessed
		if _, err := s.Gateway.Refund(ctx, b.PaymentIntentID, refundAmount); err != nil {
			// The cancellation still lands; the refund is retried out of band.
			refundStatus = models.RefundStatusFailed
			logger.Error("refund failed",
				zap.String("bookingRef", b.BookingRef),
				zap.String("paymentIntentId", b.PaymentIntentID),
				zap.Float64("refundAmount", refundAmount),
				zap.Error(err))
		}
	}

	refundDate := s.now()
	if err := s.Bookings.MarkCancelled(b.ID, refundStatus, refundAmount, refundDate); err != nil {
		return nil, NewInvalidStateError("booking %s: %v", b.BookingRef, err)
	}

	if err := s.Stations.PullBookingRef(b.StationID, b.ID); err != nil {
		logger.Warn("failed to pull station booking ref",
			zap.String("stationId", b.StationID), zap.String("bookingId", b.ID), zap.Error(err))
	}

	logger.Info("booking cancelled",
		zap.String("bookingRef", b.BookingRef),
		zap.Float64("hoursUntilStart", hoursUntil),
		zap.Float64("refundAmount", refundAmount),
		zap.String("refundStatus", refundStatus))

	return &models.CancelBookingResponse{
		BookingRef:   b.BookingRef,
		RefundAmount: refundAmount,
		RefundStatus: refundStatus,
	}, nil
}
