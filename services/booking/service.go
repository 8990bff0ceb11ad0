package booking

import (
	"context"
	"fmt"

	"evcharge/models"
	"evcharge/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreatePaymentIntent validates the request, snapshots the charging point
// from the directory, opens a gateway intent, and writes the pending ledger
// record. The pending record books nothing: it carries no admission key and
// never counts for conflicts until confirmation promotes it.
func (s *DefaultBookingService) CreatePaymentIntent(ctx context.Context, userID string, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	if req.Amount <= 0 {
		return nil, NewValidationError("amount must be positive")
	}
	if req.StationID == "" || req.ChargingPointID == "" {
		return nil, NewValidationError("stationId and chargingPointId are required")
	}
	if req.VehiclePlateNo == "" {
		return nil, NewValidationError("vehiclePlateNo is required")
	}
	if !validDate(req.Date) {
		return nil, NewValidationError("invalid date %q: want YYYY-MM-DD", req.Date)
	}
	startTime, err := To24Hour(req.StartTime)
	if err != nil {
		return nil, NewValidationError("invalid start time: %v", err)
	}
	candidate, err := candidateInterval(startTime, req.Duration)
	if err != nil {
		return nil, err
	}

	station, err := s.Stations.GetByID(req.StationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load station: %w", err)
	}
	if station == nil {
		return nil, NewNotFoundError("station %s not found", req.StationID)
	}

	point := findPoint(station, req.ChargingPointID)
	if point == nil {
		return nil, NewNotFoundError("charging point %s not found on station %s", req.ChargingPointID, req.StationID)
	}

	intent, err := s.Gateway.CreateIntent(ctx, req.Amount, s.Currency, map[string]string{
		"stationName":     station.Name,
		"userId":          userID,
		"chargingPointId": point.PointID,
		"vehiclePlateNo":  req.VehiclePlateNo,
	})
	if err != nil {
		return nil, NewPaymentError("failed to create payment intent: %v", err)
	}

	now := s.now()
	pending := models.Booking{
		ID:             uuid.NewString(),
		BookingRef:     newBookingRef(),
		UserID:         userID,
		StationID:      station.ID,
		StationName:    station.Name,
		StationAddress: station.Address,
		Latitude:       station.Location.Latitude,
		Longitude:      station.Location.Longitude,

		ChargingPoint:  snapshotOf(point),
		VehiclePlateNo: req.VehiclePlateNo,

		Date:      req.Date,
		StartTime: startTime,
		EndTime:   FormatClock(candidate.End),
		Duration:  req.Duration,

		Amount:          req.Amount,
		Currency:        s.Currency,
		PaymentIntentID: intent.ID,
		PaymentStatus:   models.PaymentStatusPending,
		BookingStatus:   models.BookingStatusPending,
		RefundStatus:    models.RefundStatusNone,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Bookings.Create(&pending); err != nil {
		return nil, fmt.Errorf("failed to record pending booking: %w", err)
	}

	return &models.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		MerchantName:    station.Name,
		ChargingPoint:   snapshotOf(point),
	}, nil
}

// VerifySlot reports whether a candidate interval is free on the charging
// point and date.
func (s *DefaultBookingService) VerifySlot(req models.VerifySlotRequest) (bool, error) {
	if !validDate(req.Date) {
		return false, NewValidationError("invalid date %q: want YYYY-MM-DD", req.Date)
	}
	candidate, err := candidateInterval(req.StartTime, req.Duration)
	if err != nil {
		return false, err
	}

	existing, err := s.Bookings.GetAdmittedForSlot(req.StationID, req.ChargingPointID, req.Date)
	if err != nil {
		return false, fmt.Errorf("failed to load admitted bookings: %w", err)
	}
	intervals, err := admittedIntervals(existing)
	if err != nil {
		return false, err
	}
	return !ConflictsWithAny(candidate, intervals), nil
}

// ListBookings returns the user's booking summaries, most recent first.
func (s *DefaultBookingService) ListBookings(userID string) ([]models.BookingSummary, error) {
	if userID == "" {
		return nil, NewValidationError("user ID is required")
	}

	bookings, err := s.Bookings.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	summaries := make([]models.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		summaries = append(summaries, models.BookingSummary{
			BookingRef:     b.BookingRef,
			StationName:    b.StationName,
			StationAddress: b.StationAddress,
			Date:           b.Date,
			StartTime:      b.StartTime,
			EndTime:        b.EndTime,
			Duration:       b.Duration,
			Amount:         b.Amount,
			PaymentStatus:  b.PaymentStatus,
			BookingStatus:  b.BookingStatus,
			Latitude:       b.Latitude,
			Longitude:      b.Longitude,
			VehiclePlateNo: b.VehiclePlateNo,
		})
	}
	return summaries, nil
}

// ListBookedSlots returns the reserved intervals of a charging point on a
// date.
func (s *DefaultBookingService) ListBookedSlots(stationID, pointID, date string) ([]models.BookedSlot, error) {
	if stationID == "" || pointID == "" {
		return nil, NewValidationError("stationId and chargingPointId are required")
	}
	if !validDate(date) {
		return nil, NewValidationError("invalid date %q: want YYYY-MM-DD", date)
	}

	bookings, err := s.Bookings.GetAdmittedForSlot(stationID, pointID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}

	slots := make([]models.BookedSlot, 0, len(bookings))
	for _, b := range bookings {
		slots = append(slots, models.BookedSlot{
			PointID:   b.ChargingPoint.PointID,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Duration:  b.Duration,
		})
	}
	return slots, nil
}

// RebuildStationIndex recomputes the station's derived booking index from
// the bookings collection. The index is a cache; this is the recovery path
// after partial failures.
func (s *DefaultBookingService) RebuildStationIndex(stationID string) error {
	station, err := s.Stations.GetByID(stationID)
	if err != nil {
		return fmt.Errorf("failed to load station: %w", err)
	}
	if station == nil {
		return NewNotFoundError("station %s not found", stationID)
	}

	active, err := s.Bookings.GetActiveByStation(stationID)
	if err != nil {
		return fmt.Errorf("failed to load active bookings: %w", err)
	}

	refs := make([]models.StationBookingRef, 0, len(active))
	for _, b := range active {
		refs = append(refs, stationRefOf(b))
	}
	if err := s.Stations.ReplaceBookingRefs(stationID, refs); err != nil {
		return err
	}

	utils.GetLogger().Info("rebuilt station booking index",
		zap.String("stationId", stationID), zap.Int("entries", len(refs)))
	return nil
}

func findPoint(station *models.Station, pointID string) *models.ChargingPoint {
	for i := range station.ChargingPoints {
		if station.ChargingPoints[i].PointID == pointID {
			return &station.ChargingPoints[i]
		}
	}
	return nil
}

func snapshotOf(point *models.ChargingPoint) models.PointSnapshot {
	return models.PointSnapshot{
		PointID:       point.PointID,
		Type:          point.Type,
		Power:         point.Power,
		Price:         point.Price,
		ConnectorType: point.ConnectorType,
	}
}

func stationRefOf(b models.Booking) models.StationBookingRef {
	return models.StationBookingRef{
		BookingID: b.ID,
		UserID:    b.UserID,
		PointID:   b.ChargingPoint.PointID,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Duration:  b.Duration,
	}
}
