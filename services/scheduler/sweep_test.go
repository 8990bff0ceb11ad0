package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"evcharge/models"
)

var sweepNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingStore(bookings ...*models.Booking) *fakeBookingStore {
	f := &fakeBookingStore{bookings: make(map[string]*models.Booking)}
	for _, b := range bookings {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeBookingStore) Create(b *models.Booking) error                       { return nil }
func (f *fakeBookingStore) ConfirmPending(b *models.Booking) error               { return nil }
func (f *fakeBookingStore) GetByID(id string) (*models.Booking, error)           { return nil, nil }
func (f *fakeBookingStore) GetByPaymentIntentID(string) (*models.Booking, error) { return nil, nil }
func (f *fakeBookingStore) GetOwned(id, userID string) (*models.Booking, error)  { return nil, nil }
func (f *fakeBookingStore) GetByUser(userID string) ([]models.Booking, error)    { return nil, nil }
func (f *fakeBookingStore) GetAdmittedForSlot(stationID, pointID, date string) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) GetActiveByStation(stationID string) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) MarkCancelled(id, refundStatus string, refundAmount float64, refundDate time.Time) error {
	return nil
}

func (f *fakeBookingStore) GetSweepCandidates(dates []string) ([]models.Booking, error) {
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

func (f *fakeBookingStore) MarkCompleted(id string) error {
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

func (f *fakeBookingStore) ClaimNotificationFlag(id, flag string, at time.Time) (bool, error) {
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

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, nil
}
func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) { return nil, nil }
func (f *fakeUserStore) Create(u *models.User) error                   { return nil }
func (f *fakeUserStore) Update(u *models.User) error                   { return nil }
func (f *fakeUserStore) Delete(id string) error                        { return nil }
func (f *fakeUserStore) SetPushToken(id, token string, device models.DeviceInfo) error {
	return nil
}
func (f *fakeUserStore) GetPushTokens() ([]string, error)           { return nil, nil }
func (f *fakeUserStore) SetPasswordHash(id, hash string) error      { return nil }
func (f *fakeUserStore) AppendBookingID(id, bookingID string) error { return nil }

type sentPush struct {
	token string
	title string
}

type fakeDelivery struct {
	mu   sync.Mutex
	sent []sentPush
}

func (f *fakeDelivery) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentPush{token: token, title: title})
	return nil
}

func (f *fakeDelivery) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error) {
	return len(tokens), nil
}

func (f *fakeDelivery) titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, s := range f.sent {
		out[i] = s.title
	}
	return out
}

func sweepBooking(id, startTime string, duration int) *models.Booking {
	return &models.Booking{
		ID:            id,
		BookingRef:    "BOOK" + id,
		UserID:        "u-1",
		StationID:     "st-1",
		StationName:   "GreenCharge Hub",
		Date:          sweepNow.Format("2006-01-02"),
		StartTime:     startTime,
		Duration:      duration,
		PaymentStatus: models.PaymentStatusCompleted,
		BookingStatus: models.BookingStatusConfirmed,
	}
}

func newSweeper(store *fakeBookingStore, delivery *fakeDelivery) *Sweeper {
	return &Sweeper{
		Bookings: store,
		Users:    newFakeUserStore(&models.User{ID: "u-1", PushToken: "tok-1"}),
		Delivery: delivery,
		Location: time.UTC,
		Clock:    func() time.Time { return sweepNow },
	}
}

func TestSweepReminderWindow(t *testing.T) {
	// Clock is 10:00; one booking starts at 10:05, another at 10:30.
	store := newFakeBookingStore(
		sweepBooking("soon", "10:05", 60),
		sweepBooking("later", "10:30", 60),
	)
	delivery := &fakeDelivery{}
	s := newSweeper(store, delivery)

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	titles := delivery.titles()
	if len(titles) != 1 || titles[0] != "Booking Reminder" {
		t.Fatalf("sent = %v, want a single reminder", titles)
	}
	if store.bookings["soon"].Notifications.TenMinWarningSentAt == nil {
		t.Errorf("reminder flag not claimed")
	}
	if store.bookings["later"].Notifications.TenMinWarningSentAt != nil {
		t.Errorf("booking outside the window must not be claimed")
	}
}

func TestSweepStartAndExpiry(t *testing.T) {
	store := newFakeBookingStore(
		sweepBooking("running", "09:45", 60), // started, not over
		sweepBooking("over", "08:00", 60),    // ended at 09:00
	)
	delivery := &fakeDelivery{}
	s := newSweeper(store, delivery)

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	titles := delivery.titles()
	if len(titles) != 2 {
		t.Fatalf("sent = %v, want start and expiry", titles)
	}
	seen := map[string]bool{}
	for _, title := range titles {
		seen[title] = true
	}
	if !seen["Booking Started"] || !seen["Booking Expired"] {
		t.Errorf("sent = %v", titles)
	}

	if store.bookings["over"].BookingStatus != models.BookingStatusCompleted {
		t.Errorf("expired booking not completed: %s", store.bookings["over"].BookingStatus)
	}
	if store.bookings["running"].BookingStatus != models.BookingStatusConfirmed {
		t.Errorf("running booking must keep its status")
	}
}

func TestSweepCompletesWhenExpiryAlreadySent(t *testing.T) {
	// The expiry notice was claimed on an earlier pass, but the status
	// write failed then. The next sweep must still close the booking.
	b := sweepBooking("over", "08:00", 60)
	sentAt := sweepNow.Add(-time.Minute)
	b.Notifications.ExpiredSentAt = &sentAt
	store := newFakeBookingStore(b)
	delivery := &fakeDelivery{}
	s := newSweeper(store, delivery)

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if titles := delivery.titles(); len(titles) != 0 {
		t.Errorf("claimed expiry must not be resent, got %v", titles)
	}
	if got := store.bookings["over"].BookingStatus; got != models.BookingStatusCompleted {
		t.Errorf("booking status = %s, want completed", got)
	}
}

func TestSweepIsAtMostOncePerFlag(t *testing.T) {
	store := newFakeBookingStore(sweepBooking("soon", "10:05", 60))
	delivery := &fakeDelivery{}
	s := newSweeper(store, delivery)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Sweep(context.Background())
		}()
	}
	wg.Wait()

	if titles := delivery.titles(); len(titles) != 1 {
		t.Errorf("overlapping sweeps sent %d notifications, want 1", len(titles))
	}

	// Repeated sequential sweeps must also stay silent.
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if titles := delivery.titles(); len(titles) != 1 {
		t.Errorf("repeat sweep re-sent: %v", titles)
	}
}

func TestSweepSkipsMissingPushToken(t *testing.T) {
	store := newFakeBookingStore(sweepBooking("soon", "10:05", 60))
	delivery := &fakeDelivery{}
	s := newSweeper(store, delivery)
	s.Users = newFakeUserStore(&models.User{ID: "u-1"}) // no token

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep must not fail on a missing token: %v", err)
	}
	if titles := delivery.titles(); len(titles) != 0 {
		t.Errorf("sent = %v, want none", titles)
	}
	// The claim stands even without delivery; the notification is spent.
	if store.bookings["soon"].Notifications.TenMinWarningSentAt == nil {
		t.Errorf("flag must be claimed before delivery is attempted")
	}
}

func TestSweepIgnoresCancelledBookings(t *testing.T) {
	cancelled := sweepBooking("gone", "10:05", 60)
	cancelled.BookingStatus = models.BookingStatusCancelled
	store := newFakeBookingStore(cancelled)
	delivery := &fakeDelivery{}
	s := newSweeper(store, delivery)

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if titles := delivery.titles(); len(titles) != 0 {
		t.Errorf("cancelled booking received %v", titles)
	}
}

func TestDatesAround(t *testing.T) {
	got := datesAround(time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC))
	want := []string{"2026-02-28", "2026-03-01", "2026-03-02"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("datesAround[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
