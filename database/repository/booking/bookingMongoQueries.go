package bookingRepo

import (
	"fmt"
	"time"

	"evcharge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByPaymentIntentID retrieves the booking bound to a payment intent, if any.
func (r *MongoBookingRepo) GetByPaymentIntentID(intentID string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"paymentIntentId": intentID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking for payment intent %s: %w", intentID, err)
	}
	return &booking, nil
}

// GetOwned retrieves a booking only if it belongs to the given user.
func (r *MongoBookingRepo) GetOwned(id, userID string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	filter := bson.M{"id": id, "userId": userID}
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s for user %s: %w", id, userID, err)
	}
	return &booking, nil
}

// GetByUser retrieves all bookings of a user, most recent first.
func (r *MongoBookingRepo) GetByUser(userID string) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// GetAdmittedForSlot retrieves the bookings that count for conflict purposes
// on a charging point and date. Cancelled and unpaid bookings never block a
// slot.
func (r *MongoBookingRepo) GetAdmittedForSlot(stationID, pointID, date string) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"stationId":             stationID,
		"chargingPoint.pointId": pointID,
		"date":                  date,
		"paymentStatus":         models.PaymentStatusCompleted,
		"bookingStatus": bson.M{"$in": bson.A{
			models.BookingStatusConfirmed, models.BookingStatusOngoing,
		}},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch admitted bookings for point %s on %s: %w", pointID, date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode admitted bookings: %w", err)
	}
	return bookings, nil
}

// GetActiveByStation retrieves a station's admitted bookings.
func (r *MongoBookingRepo) GetActiveByStation(stationID string) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"stationId":     stationID,
		"paymentStatus": models.PaymentStatusCompleted,
		"bookingStatus": bson.M{"$in": bson.A{
			models.BookingStatusConfirmed, models.BookingStatusOngoing,
		}},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active bookings for station %s: %w", stationID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode active bookings: %w", err)
	}
	return bookings, nil
}

// GetSweepCandidates retrieves paid, non-cancelled bookings on any of the
// given calendar dates. The notification sweep narrows the result further by
// exact time-window membership in memory.
func (r *MongoBookingRepo) GetSweepCandidates(dates []string) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"date":          bson.M{"$in": dates},
		"paymentStatus": models.PaymentStatusCompleted,
		"bookingStatus": bson.M{"$ne": models.BookingStatusCancelled},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sweep candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode sweep candidates: %w", err)
	}
	return bookings, nil
}
