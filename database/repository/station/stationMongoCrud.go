package stationRepo

import (
	"fmt"
	"time"

	"evcharge/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new station document.
func (r *MongoStationRepo) Create(station *models.Station) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	station.CreatedAt = now
	station.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, station)
	if err != nil {
		return fmt.Errorf("failed to create station: %w", err)
	}
	return nil
}

// Update replaces an existing station document.
func (r *MongoStationRepo) Update(station *models.Station) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	station.UpdatedAt = time.Now()
	filter := bson.M{"id": station.ID}
	update := bson.M{"$set": station}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update station %s: %w", station.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("station %s not found", station.ID)
	}
	return nil
}

// Delete removes a station document by its ID.
func (r *MongoStationRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete station %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("station %s not found", id)
	}
	return nil
}

// AddChargingPoint appends a charging point to a station.
func (r *MongoStationRepo) AddChargingPoint(stationID string, point models.ChargingPoint) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": stationID}
	update := bson.M{
		"$push": bson.M{"chargingPoints": point},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add charging point to station %s: %w", stationID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("station %s not found", stationID)
	}
	return nil
}

// RemoveChargingPoint pulls a charging point off a station.
func (r *MongoStationRepo) RemoveChargingPoint(stationID, pointID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": stationID}
	update := bson.M{
		"$pull": bson.M{"chargingPoints": bson.M{"pointId": pointID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove charging point %s from station %s: %w", pointID, stationID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("station %s not found", stationID)
	}
	return nil
}

// AppendBookingRef pushes a derived index entry onto the station document.
func (r *MongoStationRepo) AppendBookingRef(stationID string, ref models.StationBookingRef) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": stationID}
	update := bson.M{
		"$push": bson.M{"bookings": ref},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append booking ref to station %s: %w", stationID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("station %s not found", stationID)
	}
	return nil
}

// PullBookingRef removes the derived index entry for a booking.
func (r *MongoStationRepo) PullBookingRef(stationID, bookingID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": stationID}
	update := bson.M{
		"$pull": bson.M{"bookings": bson.M{"bookingId": bookingID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to pull booking ref %s from station %s: %w", bookingID, stationID, err)
	}
	return nil
}

// ReplaceBookingRefs overwrites the derived index wholesale.
func (r *MongoStationRepo) ReplaceBookingRefs(stationID string, refs []models.StationBookingRef) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": stationID}
	update := bson.M{"$set": bson.M{"bookings": refs, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to rebuild booking refs for station %s: %w", stationID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("station %s not found", stationID)
	}
	return nil
}
