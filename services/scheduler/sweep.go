package scheduler

import (
	"context"
	"fmt"
	"time"

	bookingRepo "evcharge/database/repository/booking"
	userRepo "evcharge/database/repository/user"
	"evcharge/models"
	"evcharge/services/notification"
	"evcharge/utils"

	"go.uber.org/zap"
)

// The reminder fires inside this window before the booking starts.
const reminderLead = 10 * time.Minute

// Sweeper walks paid bookings around the current date and delivers the
// lifecycle notifications: the pre-start reminder, the start notice, and the
// expiry notice. Every notification is claimed in the store before delivery,
// so overlapping sweeps and process restarts cannot double-send.
type Sweeper struct {
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Delivery notification.DeliveryGateway

	// Location resolves booking date+time strings to instants. Defaults to
	// time.Local.
	Location *time.Location
	// Clock is overridable for tests. Defaults to time.Now.
	Clock func() time.Time
}

func (s *Sweeper) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Sweeper) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// Sweep runs one pass over the candidate bookings. Failures on individual
// bookings are logged and do not stop the pass.
func (s *Sweeper) Sweep(ctx context.Context) error {
	logger := utils.GetLogger()
	now := s.now().In(s.location())

	candidates, err := s.Bookings.GetSweepCandidates(datesAround(now))
	if err != nil {
		return fmt.Errorf("failed to load sweep candidates: %w", err)
	}

	for i := range candidates {
		if err := s.sweepBooking(ctx, &candidates[i], now); err != nil {
			logger.Error("sweep failed for booking",
				zap.String("bookingRef", candidates[i].BookingRef), zap.Error(err))
		}
	}
	return nil
}

func (s *Sweeper) sweepBooking(ctx context.Context, b *models.Booking, now time.Time) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.StartTime, s.location())
	if err != nil {
		return fmt.Errorf("unparseable booking time %q %q: %w", b.Date, b.StartTime, err)
	}
	end := start.Add(time.Duration(b.Duration) * time.Minute)

	switch {
	case now.Before(start.Add(-reminderLead)):
		// Not yet in the reminder window.
		return nil

	case now.Before(start):
		if b.Notifications.TenMinWarningSentAt != nil {
			return nil
		}
		return s.claimAndDeliver(ctx, b, bookingRepo.FlagTenMinWarning, now,
			"Booking Reminder",
			fmt.Sprintf("Your booking at %s is about to start in 10 minutes!", b.StationName))

	case now.Before(end):
		if b.Notifications.StartSentAt != nil {
			return nil
		}
		return s.claimAndDeliver(ctx, b, bookingRepo.FlagStart, now,
			"Booking Started",
			fmt.Sprintf("Your booking at %s has started.", b.StationName))

	default:
		if b.Notifications.ExpiredSentAt == nil {
			if err := s.claimAndDeliver(ctx, b, bookingRepo.FlagExpired, now,
				"Booking Expired",
				fmt.Sprintf("Your booking at %s has expired.", b.StationName)); err != nil {
				return err
			}
		}
		// Completion is checked independently of the notification flag, so
		// a booking whose MarkCompleted failed after a won claim is still
		// closed by a later sweep.
		if b.BookingStatus == models.BookingStatusCompleted {
			return nil
		}
		if err := s.Bookings.MarkCompleted(b.ID); err != nil {
			return fmt.Errorf("failed to complete booking: %w", err)
		}
		return nil
	}
}

// claimAndDeliver wins the notification flag before touching the transport.
// Losing the claim means another sweep already owns this notification; a
// delivery failure after a won claim is logged but never retried, keeping
// the at-most-once guarantee.
func (s *Sweeper) claimAndDeliver(ctx context.Context, b *models.Booking, flag string, now time.Time, title, body string) error {
	logger := utils.GetLogger()

	won, err := s.Bookings.ClaimNotificationFlag(b.ID, flag, now)
	if err != nil {
		return fmt.Errorf("failed to claim %s: %w", flag, err)
	}
	if !won {
		return nil
	}

	user, err := s.Users.GetByID(b.UserID)
	if err != nil {
		logger.Warn("claimed notification but user lookup failed",
			zap.String("bookingRef", b.BookingRef), zap.String("flag", flag), zap.Error(err))
		return nil
	}
	if user == nil || user.PushToken == "" {
		logger.Debug("no push target for booking",
			zap.String("bookingRef", b.BookingRef), zap.String("flag", flag))
		return nil
	}

	data := map[string]string{
		"bookingRef": b.BookingRef,
		"stationId":  b.StationID,
		"type":       flag,
	}
	if err := s.Delivery.Send(ctx, user.PushToken, title, body, data); err != nil {
		logger.Warn("push delivery failed after claim",
			zap.String("bookingRef", b.BookingRef), zap.String("flag", flag), zap.Error(err))
		return nil
	}

	logger.Info("booking notification sent",
		zap.String("bookingRef", b.BookingRef), zap.String("flag", flag))
	return nil
}

// datesAround returns yesterday, today, and tomorrow in calendar form. The
// day either side covers bookings whose window straddles midnight relative
// to the sweep instant.
func datesAround(now time.Time) []string {
	return []string{
		now.AddDate(0, 0, -1).Format("2006-01-02"),
		now.Format("2006-01-02"),
		now.AddDate(0, 0, 1).Format("2006-01-02"),
	}
}
