package station

import (
	"fmt"

	"evcharge/models"
	"evcharge/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultStationService) CreateStation(st *models.Station) (*models.Station, error) {
	if st.Name == "" {
		return nil, fmt.Errorf("station name is required")
	}
	if len(st.ChargingPoints) == 0 {
		return nil, fmt.Errorf("station must have at least one charging point")
	}
	for i := range st.ChargingPoints {
		if st.ChargingPoints[i].PointID == "" {
			st.ChargingPoints[i].PointID = uuid.NewString()
		}
		if st.ChargingPoints[i].Status == "" {
			st.ChargingPoints[i].Status = models.PointStatusAvailable
		}
	}

	if existing, err := s.Stations.GetByName(st.Name); err != nil {
		return nil, fmt.Errorf("failed to check station name: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("station named %q already exists", st.Name)
	}

	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.OperationalStatus == "" {
		st.OperationalStatus = models.StationStatusActive
	}

	if err := s.Stations.Create(st); err != nil {
		return nil, fmt.Errorf("failed to create station: %w", err)
	}

	utils.GetLogger().Info("station registered",
		zap.String("stationId", st.ID), zap.String("name", st.Name),
		zap.Int("chargingPoints", len(st.ChargingPoints)))
	return st, nil
}

func (s *DefaultStationService) GetStation(id string) (*models.Station, error) {
	st, err := s.Stations.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load station: %w", err)
	}
	if st == nil {
		return nil, fmt.Errorf("station %s not found", id)
	}
	return st, nil
}

func (s *DefaultStationService) ListStations() ([]models.Station, error) {
	return s.Stations.GetAll()
}

func (s *DefaultStationService) UpdateStation(st *models.Station) (*models.Station, error) {
	existing, err := s.Stations.GetByID(st.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load station: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("station %s not found", st.ID)
	}

	// The booking index belongs to the booking engine, not the caller.
	st.Bookings = existing.Bookings
	st.CreatedAt = existing.CreatedAt

	if err := s.Stations.Update(st); err != nil {
		return nil, fmt.Errorf("failed to update station: %w", err)
	}
	return st, nil
}

func (s *DefaultStationService) DeleteStation(id string) error {
	return s.Stations.Delete(id)
}

func (s *DefaultStationService) AddChargingPoint(stationID string, point models.ChargingPoint) error {
	if point.PointID == "" {
		point.PointID = uuid.NewString()
	}
	if point.Status == "" {
		point.Status = models.PointStatusAvailable
	}
	return s.Stations.AddChargingPoint(stationID, point)
}

func (s *DefaultStationService) RemoveChargingPoint(stationID, pointID string) error {
	return s.Stations.RemoveChargingPoint(stationID, pointID)
}
