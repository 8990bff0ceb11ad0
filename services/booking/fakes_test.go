package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingRepo "evcharge/database/repository/booking"
	"evcharge/models"
	"evcharge/services/payment"

	"go.mongodb.org/mongo-driver/mongo"
)

// dupKeyErr mimics the unique-index violation the Mongo driver reports.
func dupKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	// forceDupOnCreate makes the next Create fail with a duplicate-key
	// error, simulating the loser of an admission race.
	forceDupOnCreate bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) Create(b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forceDupOnCreate {
		f.forceDupOnCreate = false
		return dupKeyErr()
	}
	for _, existing := range f.bookings {
		if existing.PaymentIntentID == b.PaymentIntentID {
			return dupKeyErr()
		}
		if b.SlotKey != "" && existing.SlotKey == b.SlotKey {
			return dupKeyErr()
		}
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) ConfirmPending(b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.bookings[b.ID]
	if !ok || cur.BookingStatus != models.BookingStatusPending {
		return bookingRepo.ErrNotPending
	}
	for _, existing := range f.bookings {
		if existing.ID != b.ID && b.SlotKey != "" && existing.SlotKey == b.SlotKey {
			return dupKeyErr()
		}
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetByPaymentIntentID(intentID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.PaymentIntentID == intentID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetOwned(id, userID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok && b.UserID == userID {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetByUser(userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetAdmittedForSlot(stationID, pointID, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.StationID == stationID && b.ChargingPoint.PointID == pointID && b.Date == date &&
			b.PaymentStatus == models.PaymentStatusCompleted &&
			(b.BookingStatus == models.BookingStatusConfirmed || b.BookingStatus == models.BookingStatusOngoing) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetSweepCandidates(dates []string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dateSet := make(map[string]bool, len(dates))
	for _, d := range dates {
		dateSet[d] = true
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if dateSet[b.Date] && b.PaymentStatus == models.PaymentStatusCompleted &&
			b.BookingStatus != models.BookingStatusCancelled {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetActiveByStation(stationID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.StationID == stationID && b.PaymentStatus == models.PaymentStatusCompleted &&
			(b.BookingStatus == models.BookingStatusConfirmed || b.BookingStatus == models.BookingStatusOngoing) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkCancelled(id, refundStatus string, refundAmount float64, refundDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.BookingStatus != models.BookingStatusConfirmed {
		return fmt.Errorf("booking %s is not in a cancellable state", id)
	}
	b.BookingStatus = models.BookingStatusCancelled
	b.RefundStatus = refundStatus
	b.RefundAmount = refundAmount
	b.RefundDate = &refundDate
	b.SlotKey = ""
	return nil
}

func (f *fakeBookingRepo) MarkCompleted(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil
	}
	if b.BookingStatus == models.BookingStatusConfirmed || b.BookingStatus == models.BookingStatusOngoing {
		b.BookingStatus = models.BookingStatusCompleted
	}
	return nil
}

func (f *fakeBookingRepo) ClaimNotificationFlag(id, flag string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.BookingStatus == models.BookingStatusCancelled {
		return false, nil
	}
	var slot **time.Time
	switch flag {
	case "tenMinWarningSentAt":
		slot = &b.Notifications.TenMinWarningSentAt
	case "startSentAt":
		slot = &b.Notifications.StartSentAt
	case "expiredSentAt":
		slot = &b.Notifications.ExpiredSentAt
	default:
		return false, fmt.Errorf("unknown flag %q", flag)
	}
	if *slot != nil {
		return false, nil
	}
	t := at
	*slot = &t
	return true, nil
}

type fakeStationRepo struct {
	mu       sync.Mutex
	stations map[string]*models.Station

	appended []models.StationBookingRef
	pulled   []string
	replaced map[string][]models.StationBookingRef
}

func newFakeStationRepo(stations ...*models.Station) *fakeStationRepo {
	f := &fakeStationRepo{
		stations: make(map[string]*models.Station),
		replaced: make(map[string][]models.StationBookingRef),
	}
	for _, st := range stations {
		f.stations[st.ID] = st
	}
	return f
}

func (f *fakeStationRepo) Create(st *models.Station) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stations[st.ID] = st
	return nil
}

func (f *fakeStationRepo) GetByID(id string) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.stations[id]; ok {
		return st, nil
	}
	return nil, nil
}

func (f *fakeStationRepo) GetByName(name string) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.stations {
		if st.Name == name {
			return st, nil
		}
	}
	return nil, nil
}

func (f *fakeStationRepo) GetAll() ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Station
	for _, st := range f.stations {
		out = append(out, *st)
	}
	return out, nil
}

func (f *fakeStationRepo) Update(st *models.Station) error { return nil }
func (f *fakeStationRepo) Delete(id string) error          { return nil }
func (f *fakeStationRepo) AddChargingPoint(stationID string, point models.ChargingPoint) error {
	return nil
}
func (f *fakeStationRepo) RemoveChargingPoint(stationID, pointID string) error { return nil }

func (f *fakeStationRepo) AppendBookingRef(stationID string, ref models.StationBookingRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, ref)
	return nil
}

func (f *fakeStationRepo) PullBookingRef(stationID, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulled = append(f.pulled, bookingID)
	return nil
}

func (f *fakeStationRepo) ReplaceBookingRefs(stationID string, refs []models.StationBookingRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced[stationID] = refs
	return nil
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]*models.User
	appended []string
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}
func (f *fakeUserRepo) Update(u *models.User) error { return nil }
func (f *fakeUserRepo) Delete(id string) error      { return nil }
func (f *fakeUserRepo) SetPushToken(id, token string, device models.DeviceInfo) error {
	return nil
}
func (f *fakeUserRepo) GetPushTokens() ([]string, error)      { return nil, nil }
func (f *fakeUserRepo) SetPasswordHash(id, hash string) error { return nil }

func (f *fakeUserRepo) AppendBookingID(id, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, bookingID)
	return nil
}

type fakeGateway struct {
	mu      sync.Mutex
	intents map[string]*payment.Intent
	refunds map[string]float64

	refundErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		intents: make(map[string]*payment.Intent),
		refunds: make(map[string]float64),
	}
}

func (f *fakeGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("pi_%d", len(f.intents)+1)
	intent := &payment.Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}
	f.intents[id] = intent
	return intent, nil
}

func (f *fakeGateway) RetrieveIntent(ctx context.Context, intentID string) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if intent, ok := f.intents[intentID]; ok {
		return intent, nil
	}
	return nil, fmt.Errorf("no such intent %s", intentID)
}

func (f *fakeGateway) Refund(ctx context.Context, intentID string, amount float64) (*payment.RefundResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	f.refunds[intentID] = amount
	return &payment.RefundResult{ID: "re_" + intentID, Status: "succeeded"}, nil
}

func (f *fakeGateway) succeeded(intentID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents[intentID] = &payment.Intent{ID: intentID, ClientSecret: intentID + "_secret", Status: payment.IntentSucceeded}
}
