package station

import (
	stationRepo "evcharge/database/repository/station"
	"evcharge/models"
)

// StationService is the charging-station directory: registration,
// maintenance of charging points, and geographic search.
type StationService interface {
	// CreateStation registers a new station. At least one charging point is
	// required.
	CreateStation(st *models.Station) (*models.Station, error)
	// GetStation retrieves a station by ID.
	GetStation(id string) (*models.Station, error)
	// ListStations returns the full directory.
	ListStations() ([]models.Station, error)
	// UpdateStation replaces a station's details. The derived booking index
	// is preserved across updates.
	UpdateStation(st *models.Station) (*models.Station, error)
	// DeleteStation removes a station from the directory.
	DeleteStation(id string) error
	// AddChargingPoint appends a charger to a station.
	AddChargingPoint(stationID string, point models.ChargingPoint) error
	// RemoveChargingPoint removes a charger from a station.
	RemoveChargingPoint(stationID, pointID string) error
	// NearbyStations returns stations within radiusKm of the point, closest
	// first. A non-positive radius falls back to the configured default.
	NearbyStations(lat, lng, radiusKm float64) ([]models.StationSummary, error)
}

// DefaultStationService is the production implementation.
type DefaultStationService struct {
	Stations stationRepo.StationRepository

	// DefaultRadiusKm bounds nearby search when the caller gives no radius.
	DefaultRadiusKm float64
}
