package station

import (
	"fmt"
	"math"
	"sort"

	"evcharge/models"
)

const earthRadiusKm = 6371.0

// haversineKm computes the great-circle distance between two points in
// decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// stationType summarizes the charger mix: a single point type, or "Mixed".
func stationType(points []models.ChargingPoint) string {
	if len(points) == 0 {
		return ""
	}
	first := points[0].Type
	for _, p := range points[1:] {
		if p.Type != first {
			return "Mixed"
		}
	}
	return first
}

func (s *DefaultStationService) NearbyStations(lat, lng, radiusKm float64) ([]models.StationSummary, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("invalid coordinates (%f, %f)", lat, lng)
	}
	if radiusKm <= 0 {
		radiusKm = s.DefaultRadiusKm
	}

	stations, err := s.Stations.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load stations: %w", err)
	}

	summaries := make([]models.StationSummary, 0)
	for _, st := range stations {
		dist := haversineKm(lat, lng, st.Location.Latitude, st.Location.Longitude)
		if dist > radiusKm {
			continue
		}
		summaries = append(summaries, models.StationSummary{
			ID:                st.ID,
			Name:              st.Name,
			Address:           st.Address,
			NumChargers:       len(st.ChargingPoints),
			Type:              stationType(st.ChargingPoints),
			Latitude:          st.Location.Latitude,
			Longitude:         st.Location.Longitude,
			OperationalStatus: st.OperationalStatus,
			OperatingHours:    st.OperatingHours,
			DistanceKm:        math.Round(dist*100) / 100,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].DistanceKm < summaries[j].DistanceKm
	})
	return summaries, nil
}
