package models

import "time"

// Charging point type.
const (
	PointTypeAC     = "AC"
	PointTypeDC     = "DC"
	PointTypeHybrid = "Hybrid"
)

// Charging point operational status. Status is informational only; the
// booking engine does not consult it when admitting reservations.
const (
	PointStatusAvailable   = "Available"
	PointStatusOccupied    = "Occupied"
	PointStatusMaintenance = "Maintenance"
	PointStatusOffline     = "Offline"
)

// Station operational status.
const (
	StationStatusActive      = "Active"
	StationStatusMaintenance = "Maintenance"
	StationStatusOffline     = "Offline"
	StationStatusComingSoon  = "Coming Soon"
)

// ChargingPoint is a single charger owned by a station.
type ChargingPoint struct {
	PointID           string   `bson:"pointId" json:"pointId"`
	Type              string   `bson:"type" json:"type"`
	ConnectorType     string   `bson:"connectorType" json:"connectorType"`
	Power             string   `bson:"power" json:"power"`
	InputVoltage      string   `bson:"inputVoltage" json:"inputVoltage"`
	MaxCurrent        string   `bson:"maxCurrent" json:"maxCurrent"`
	Price             float64  `bson:"price" json:"price"`
	Status            string   `bson:"status" json:"status"`
	SupportedVehicles []string `bson:"supportedVehicles,omitempty" json:"supportedVehicles,omitempty"`
}

// OperatingHours is the station's daily open window, "HH:MM" 24h clock.
type OperatingHours struct {
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}

// GeoLocation is a point in decimal degrees.
type GeoLocation struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// StationBookingRef is a derived index entry embedded on the station
// document. It is a rebuildable projection of the bookings collection,
// never the source of truth.
type StationBookingRef struct {
	BookingID string `bson:"bookingId" json:"bookingId"`
	UserID    string `bson:"userId" json:"userId"`
	PointID   string `bson:"pointId" json:"pointId"`
	Date      string `bson:"date" json:"date"`
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
	Duration  int    `bson:"duration" json:"duration"`
}

// Station is a charging station with its owned charging points.
type Station struct {
	ID                string              `bson:"id" json:"id"`
	Name              string              `bson:"name" json:"name"`
	Address           string              `bson:"address" json:"address"`
	OperationalStatus string              `bson:"operationalStatus" json:"operationalStatus"`
	OperatingHours    OperatingHours      `bson:"operatingHours" json:"operatingHours"`
	ChargingPoints    []ChargingPoint     `bson:"chargingPoints" json:"chargingPoints"`
	Amenities         []string            `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Location          GeoLocation         `bson:"location" json:"location"`
	Bookings          []StationBookingRef `bson:"bookings,omitempty" json:"bookings,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// StationSummary is the trimmed shape returned by nearby search.
type StationSummary struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Address           string         `json:"address"`
	NumChargers       int            `json:"numChargers"`
	Type              string         `json:"type"`
	Latitude          float64        `json:"latitude"`
	Longitude         float64        `json:"longitude"`
	OperationalStatus string         `json:"operationalStatus"`
	OperatingHours    OperatingHours `json:"operatingHours"`
	DistanceKm        float64        `json:"distanceKm"`
}
