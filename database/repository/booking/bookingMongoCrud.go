package bookingRepo

import (
	"fmt"
	"time"

	"evcharge/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		if IsDuplicateKey(err) {
			return err
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// ConfirmPending promotes the pending booking in one conditional write. The
// $set includes the admission slot key, so the unique sparse index arbitrates
// racing confirmations for the same slot.
func (r *MongoBookingRepo) ConfirmPending(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": booking.ID, "bookingStatus": models.BookingStatusPending}
	update := bson.M{"$set": bson.M{
		"userEmail":      booking.UserEmail,
		"stationId":      booking.StationID,
		"stationName":    booking.StationName,
		"stationAddress": booking.StationAddress,
		"latitude":       booking.Latitude,
		"longitude":      booking.Longitude,
		"chargingPoint":  booking.ChargingPoint,
		"vehiclePlateNo": booking.VehiclePlateNo,
		"date":           booking.Date,
		"startTime":      booking.StartTime,
		"endTime":        booking.EndTime,
		"duration":       booking.Duration,
		"slotKey":        booking.SlotKey,
		"amount":         booking.Amount,
		"paymentStatus":  models.PaymentStatusCompleted,
		"paymentMethod":  booking.PaymentMethod,
		"bookingStatus":  models.BookingStatusConfirmed,
		"updatedAt":      time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		if IsDuplicateKey(err) {
			return err
		}
		return fmt.Errorf("failed to confirm booking %s: %w", booking.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// MarkCancelled flips the booking to cancelled, records the refund outcome,
// and unsets the admission slot key so the interval frees up.
func (r *MongoBookingRepo) MarkCancelled(id, refundStatus string, refundAmount float64, refundDate time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "bookingStatus": models.BookingStatusConfirmed}
	update := bson.M{
		"$set": bson.M{
			"bookingStatus": models.BookingStatusCancelled,
			"refundStatus":  refundStatus,
			"refundAmount":  refundAmount,
			"refundDate":    refundDate,
			"updatedAt":     time.Now(),
		},
		"$unset": bson.M{"slotKey": ""},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s is not in a cancellable state", id)
	}
	return nil
}

// MarkCompleted flips a confirmed booking to completed. Cancelled bookings
// are left untouched.
func (r *MongoBookingRepo) MarkCompleted(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "bookingStatus": bson.M{"$in": bson.A{
		models.BookingStatusConfirmed, models.BookingStatusOngoing,
	}}}
	update := bson.M{"$set": bson.M{
		"bookingStatus": models.BookingStatusCompleted,
		"updatedAt":     time.Now(),
	}}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to complete booking %s: %w", id, err)
	}
	return nil
}

// ClaimNotificationFlag performs a conditional single-document update: the
// flag is set only if currently unset and the booking is not cancelled.
// ModifiedCount tells us whether this caller won the claim, which is the
// at-most-once guarantee for notification delivery.
func (r *MongoBookingRepo) ClaimNotificationFlag(id, flag string, at time.Time) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	field := "notifications." + flag
	filter := bson.M{
		"id":            id,
		field:           nil,
		"bookingStatus": bson.M{"$ne": models.BookingStatusCancelled},
	}
	update := bson.M{"$set": bson.M{field: at, "updatedAt": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to claim notification flag %s on booking %s: %w", flag, id, err)
	}
	return result.ModifiedCount == 1, nil
}
