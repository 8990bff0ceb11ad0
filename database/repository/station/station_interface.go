package stationRepo

import "evcharge/models"

// StationRepository defines data access for the station directory.
type StationRepository interface {
	// Create inserts a new station record.
	Create(station *models.Station) error
	// GetByID retrieves a station by its unique ID.
	GetByID(id string) (*models.Station, error)
	// GetByName retrieves a station by its display name.
	GetByName(name string) (*models.Station, error)
	// GetAll retrieves all stations.
	GetAll() ([]models.Station, error)
	// Update replaces a station document.
	Update(station *models.Station) error
	// Delete removes a station record by its ID.
	Delete(id string) error
	// AddChargingPoint appends a charging point to a station.
	AddChargingPoint(stationID string, point models.ChargingPoint) error
	// RemoveChargingPoint pulls a charging point off a station.
	RemoveChargingPoint(stationID, pointID string) error
	// AppendBookingRef pushes a derived index entry onto the station.
	AppendBookingRef(stationID string, ref models.StationBookingRef) error
	// PullBookingRef removes the derived index entry for a booking.
	PullBookingRef(stationID, bookingID string) error
	// ReplaceBookingRefs overwrites the derived index wholesale; used by the
	// reconciliation path to rebuild it from the bookings collection.
	ReplaceBookingRefs(stationID string, refs []models.StationBookingRef) error
}
