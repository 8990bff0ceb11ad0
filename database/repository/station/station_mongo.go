package stationRepo

import (
	"context"
	"fmt"
	"time"

	"evcharge/database"
	"evcharge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStationRepo implements StationRepository using MongoDB.
type MongoStationRepo struct {
	coll *mongo.Collection
}

// NewMongoStationRepo creates a new instance of StationRepository using MongoDB.
func NewMongoStationRepo() StationRepository {
	coll := database.DB().Collection("stations")
	repo := &MongoStationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create station indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoStationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a station by its unique ID.
func (r *MongoStationRepo) GetByID(id string) (*models.Station, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var station models.Station
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&station); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch station %s: %w", id, err)
	}
	return &station, nil
}

// GetByName retrieves a station by its display name.
func (r *MongoStationRepo) GetByName(name string) (*models.Station, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var station models.Station
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&station); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch station %q: %w", name, err)
	}
	return &station, nil
}

// GetAll retrieves all stations.
func (r *MongoStationRepo) GetAll() ([]models.Station, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	defer cursor.Close(ctx)

	var stations []models.Station
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, fmt.Errorf("failed to decode stations: %w", err)
	}
	return stations, nil
}
