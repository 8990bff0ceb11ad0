package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"evcharge/models"
)

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func testStation() *models.Station {
	return &models.Station{
		ID:      "st-1",
		Name:    "GreenCharge Hub",
		Address: "12 Ring Road",
		Location: models.GeoLocation{
			Latitude:  12.9716,
			Longitude: 77.5946,
		},
		ChargingPoints: []models.ChargingPoint{
			{PointID: "cp-1", Type: models.PointTypeDC, Power: "60kW", Price: 18, ConnectorType: "CCS2"},
			{PointID: "cp-2", Type: models.PointTypeAC, Power: "22kW", Price: 12, ConnectorType: "Type2"},
		},
	}
}

type testEnv struct {
	svc      *DefaultBookingService
	bookings *fakeBookingRepo
	stations *fakeStationRepo
	users    *fakeUserRepo
	gateway  *fakeGateway
}

func newTestEnv() *testEnv {
	bookings := newFakeBookingRepo()
	stations := newFakeStationRepo(testStation())
	users := newFakeUserRepo(&models.User{ID: "u-1", Email: "driver@example.com"})
	gateway := newFakeGateway()
	svc := &DefaultBookingService{
		Bookings: bookings,
		Stations: stations,
		Users:    users,
		Gateway:  gateway,
		Currency: "inr",
		Location: time.UTC,
		Clock:    func() time.Time { return testNow },
	}
	return &testEnv{svc: svc, bookings: bookings, stations: stations, users: users, gateway: gateway}
}

func confirmReq(intentID, startTime string) models.ConfirmBookingRequest {
	return models.ConfirmBookingRequest{
		PaymentIntentID: intentID,
		StationID:       "st-1",
		ChargingPointID: "cp-1",
		Date:            "2026-09-02",
		StartTime:       startTime,
		Duration:        60,
		Amount:          500,
		VehiclePlateNo:  "KA01AB1234",
	}
}

func (e *testEnv) succeededIntent(t *testing.T) string {
	t.Helper()
	intent, err := e.gateway.CreateIntent(context.Background(), 500, "inr", nil)
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	e.gateway.succeeded(intent.ID)
	return intent.ID
}

func intentReq() models.PaymentIntentRequest {
	return models.PaymentIntentRequest{
		Amount:          500,
		StationID:       "st-1",
		ChargingPointID: "cp-1",
		Date:            "2026-09-02",
		StartTime:       "10:00",
		Duration:        60,
		VehiclePlateNo:  "KA01AB1234",
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp, err := env.svc.CreatePaymentIntent(ctx, "u-1", intentReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PaymentIntentID == "" || resp.ClientSecret == "" {
		t.Errorf("expected intent id and secret, got %+v", resp)
	}
	if resp.MerchantName != "GreenCharge Hub" {
		t.Errorf("merchant name = %q", resp.MerchantName)
	}
	if resp.ChargingPoint.PointID != "cp-1" {
		t.Errorf("snapshot pointId = %q", resp.ChargingPoint.PointID)
	}

	pending, err := env.bookings.GetByPaymentIntentID(resp.PaymentIntentID)
	if err != nil || pending == nil {
		t.Fatalf("pending record not written: %v, %v", pending, err)
	}
	if pending.BookingStatus != models.BookingStatusPending || pending.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("pending status = %s/%s", pending.PaymentStatus, pending.BookingStatus)
	}
	if pending.SlotKey != "" {
		t.Errorf("pending record must carry no slot key, got %q", pending.SlotKey)
	}
	if pending.EndTime != "11:00" {
		t.Errorf("pending end time = %q, want 11:00", pending.EndTime)
	}

	bad := intentReq()
	bad.Amount = -10
	if _, err := env.svc.CreatePaymentIntent(ctx, "u-1", bad); CodeOf(err) != CodeValidation {
		t.Errorf("negative amount: want validation error, got %v", err)
	}

	bad = intentReq()
	bad.Date = "02-09-2026"
	if _, err := env.svc.CreatePaymentIntent(ctx, "u-1", bad); CodeOf(err) != CodeValidation {
		t.Errorf("bad date: want validation error, got %v", err)
	}

	bad = intentReq()
	bad.StationID = "nope"
	if _, err := env.svc.CreatePaymentIntent(ctx, "u-1", bad); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown station: want notFound error, got %v", err)
	}
}

func TestConfirmBooking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	intentID := env.succeededIntent(t)

	b, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(intentID, "10:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.EndTime != "11:00" {
		t.Errorf("end time = %q, want 11:00", b.EndTime)
	}
	if b.SlotKey != "cp-1|2026-09-02|10:00" {
		t.Errorf("slot key = %q", b.SlotKey)
	}
	if b.PaymentStatus != models.PaymentStatusCompleted || b.BookingStatus != models.BookingStatusConfirmed {
		t.Errorf("status = %s/%s", b.PaymentStatus, b.BookingStatus)
	}
	if b.StationName != "GreenCharge Hub" || b.ChargingPoint.Price != 18 {
		t.Errorf("station snapshot not taken: %+v", b)
	}

	if len(env.stations.appended) != 1 || env.stations.appended[0].BookingID != b.ID {
		t.Errorf("station index not updated: %+v", env.stations.appended)
	}
	if len(env.users.appended) != 1 || env.users.appended[0] != b.ID {
		t.Errorf("user index not updated: %+v", env.users.appended)
	}
}

func TestConfirmBookingIsIdempotentPerIntent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	intentID := env.succeededIntent(t)

	first, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(intentID, "10:00"))
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	second, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(intentID, "10:00"))
	if err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}
	if second.ID != first.ID || second.BookingRef != first.BookingRef {
		t.Errorf("repeat confirm returned a different booking: %s vs %s", second.ID, first.ID)
	}
	if n := len(env.bookings.bookings); n != 1 {
		t.Errorf("expected a single persisted booking, got %d", n)
	}
}

func TestConfirmBookingPromotesPending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp, err := env.svc.CreatePaymentIntent(ctx, "u-1", intentReq())
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	env.gateway.succeeded(resp.PaymentIntentID)
	pending, _ := env.bookings.GetByPaymentIntentID(resp.PaymentIntentID)

	b, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(resp.PaymentIntentID, "10:00"))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if b.ID != pending.ID || b.BookingRef != pending.BookingRef {
		t.Errorf("promotion must keep the ledger record, got %s/%s want %s/%s",
			b.ID, b.BookingRef, pending.ID, pending.BookingRef)
	}
	if b.BookingStatus != models.BookingStatusConfirmed || b.PaymentStatus != models.PaymentStatusCompleted {
		t.Errorf("status = %s/%s", b.PaymentStatus, b.BookingStatus)
	}
	if b.SlotKey != "cp-1|2026-09-02|10:00" {
		t.Errorf("slot key = %q", b.SlotKey)
	}
	if n := len(env.bookings.bookings); n != 1 {
		t.Errorf("promotion must not add a record, got %d", n)
	}
}

func TestCancelPendingBookingIsInvalidState(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp, err := env.svc.CreatePaymentIntent(ctx, "u-1", intentReq())
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	pending, _ := env.bookings.GetByPaymentIntentID(resp.PaymentIntentID)

	if _, err := env.svc.CancelBooking(ctx, pending.ID, "u-1"); CodeOf(err) != CodeInvalidState {
		t.Errorf("cancel pending: want invalidState, got %v", err)
	}
}

func TestConfirmBookingRejectsOverlap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(env.succeededIntent(t), "10:00")); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	cases := []struct {
		start    string
		duration int
		wantCode string
	}{
		{"10:30", 60, CodeConflict}, // straddles the end
		{"09:30", 60, CodeConflict}, // straddles the start
		{"10:00", 60, CodeConflict}, // identical
		{"09:00", 60, ""},           // touches the start, admitted
		{"11:00", 60, ""},           // touches the end, admitted
	}
	for _, c := range cases {
		req := confirmReq(env.succeededIntent(t), c.start)
		req.Duration = c.duration
		_, err := env.svc.ConfirmBooking(ctx, "u-1", req)
		if CodeOf(err) != c.wantCode {
			t.Errorf("start %s: got %v, want code %q", c.start, err, c.wantCode)
		}
	}
}

func TestConfirmBookingRequiresSucceededIntent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	intent, _ := env.gateway.CreateIntent(ctx, 500, "inr", nil)
	_, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(intent.ID, "10:00"))
	if CodeOf(err) != CodePayment {
		t.Errorf("pending intent: want payment error, got %v", err)
	}

	_, err = env.svc.ConfirmBooking(ctx, "u-1", confirmReq("pi_missing", "10:00"))
	if CodeOf(err) != CodePayment {
		t.Errorf("unknown intent: want payment error, got %v", err)
	}
}

func TestConfirmBookingAdmissionRaceLoser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	intentID := env.succeededIntent(t)

	// The conflicting write lands between our read-side check and the
	// insert; the unique index turns it into a duplicate-key error.
	env.bookings.forceDupOnCreate = true
	_, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(intentID, "10:00"))
	if CodeOf(err) != CodeConflict {
		t.Errorf("race loser: want conflict error, got %v", err)
	}
	if n := len(env.bookings.bookings); n != 0 {
		t.Errorf("loser must not persist a booking, got %d", n)
	}
}

func TestConfirmBookingEndingAtMidnight(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	b, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(env.succeededIntent(t), "23:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.EndTime != "24:00" {
		t.Errorf("end time = %q, want 24:00", b.EndTime)
	}

	// The stored midnight end must not poison later checks on the slot.
	free, err := env.svc.VerifySlot(models.VerifySlotRequest{
		StationID: "st-1", ChargingPointID: "cp-1", Date: "2026-09-02", StartTime: "09:00", Duration: 60,
	})
	if err != nil {
		t.Fatalf("verify after midnight-ending booking: %v", err)
	}
	if !free {
		t.Errorf("morning slot reported busy")
	}

	free, err = env.svc.VerifySlot(models.VerifySlotRequest{
		StationID: "st-1", ChargingPointID: "cp-1", Date: "2026-09-02", StartTime: "23:30", Duration: 30,
	})
	if err != nil {
		t.Fatalf("verify overlapping window: %v", err)
	}
	if free {
		t.Errorf("overlap with the midnight-ending booking reported free")
	}
}

func TestConfirmBookingAcceptsAMPMStartTime(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	b, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(env.succeededIntent(t), "2:30 PM"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.StartTime != "14:30" || b.EndTime != "15:30" {
		t.Errorf("got %s-%s, want 14:30-15:30", b.StartTime, b.EndTime)
	}
}

func cancelEnvWithBooking(t *testing.T, startTime string, date string) (*testEnv, *models.Booking) {
	t.Helper()
	env := newTestEnv()
	req := confirmReq(env.succeededIntent(t), startTime)
	req.Date = date
	b, err := env.svc.ConfirmBooking(context.Background(), "u-1", req)
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return env, b
}

func TestCancelBookingRefundTiers(t *testing.T) {
	// Clock is 2026-09-01 08:00 UTC.
	cases := []struct {
		name       string
		date       string
		start      string
		wantAmount float64
		wantStatus string
	}{
		{"more than 24h out", "2026-09-02", "10:00", 500, models.RefundStatusProcessed},
		{"between 12 and 24h", "2026-09-01", "22:00", 250, models.RefundStatusProcessed},
		{"under 12h", "2026-09-01", "15:00", 0, models.RefundStatusNone},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env, b := cancelEnvWithBooking(t, c.start, c.date)

			resp, err := env.svc.CancelBooking(context.Background(), b.ID, "u-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.RefundAmount != c.wantAmount {
				t.Errorf("refund amount = %v, want %v", resp.RefundAmount, c.wantAmount)
			}
			if resp.RefundStatus != c.wantStatus {
				t.Errorf("refund status = %q, want %q", resp.RefundStatus, c.wantStatus)
			}

			stored, _ := env.bookings.GetByID(b.ID)
			if stored.BookingStatus != models.BookingStatusCancelled {
				t.Errorf("booking status = %q", stored.BookingStatus)
			}
			if stored.SlotKey != "" {
				t.Errorf("slot key must be released on cancellation")
			}

			refunded, called := env.gateway.refunds[b.PaymentIntentID]
			if c.wantAmount > 0 {
				if !called || refunded != c.wantAmount {
					t.Errorf("gateway refund = %v (called=%v), want %v", refunded, called, c.wantAmount)
				}
			} else if called {
				t.Errorf("gateway must not be called for a zero refund")
			}
		})
	}
}

func TestCancelBookingFreesSlotForRebooking(t *testing.T) {
	env, b := cancelEnvWithBooking(t, "10:00", "2026-09-02")

	if _, err := env.svc.CancelBooking(context.Background(), b.ID, "u-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := env.svc.ConfirmBooking(context.Background(), "u-1", confirmReq(env.succeededIntent(t), "10:00")); err != nil {
		t.Fatalf("rebooking a cancelled slot must succeed, got %v", err)
	}
}

func TestCancelBookingGuards(t *testing.T) {
	env, b := cancelEnvWithBooking(t, "10:00", "2026-09-02")
	ctx := context.Background()

	if _, err := env.svc.CancelBooking(ctx, b.ID, "someone-else"); CodeOf(err) != CodeNotFound {
		t.Errorf("foreign user: want notFound, got %v", err)
	}
	if _, err := env.svc.CancelBooking(ctx, "missing", "u-1"); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown booking: want notFound, got %v", err)
	}

	if _, err := env.svc.CancelBooking(ctx, b.ID, "u-1"); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := env.svc.CancelBooking(ctx, b.ID, "u-1"); CodeOf(err) != CodeInvalidState {
		t.Errorf("double cancel: want invalidState, got %v", err)
	}
}

func TestCancelBookingRefundFailureStillCancels(t *testing.T) {
	env, b := cancelEnvWithBooking(t, "10:00", "2026-09-02")
	env.gateway.refundErr = errors.New("gateway down")

	resp, err := env.svc.CancelBooking(context.Background(), b.ID, "u-1")
	if err != nil {
		t.Fatalf("cancellation must land despite refund failure, got %v", err)
	}
	if resp.RefundStatus != models.RefundStatusFailed {
		t.Errorf("refund status = %q, want failed", resp.RefundStatus)
	}

	stored, _ := env.bookings.GetByID(b.ID)
	if stored.BookingStatus != models.BookingStatusCancelled {
		t.Errorf("booking status = %q, want cancelled", stored.BookingStatus)
	}
}

func TestVerifySlot(t *testing.T) {
	env := newTestEnv()
	if _, err := env.svc.ConfirmBooking(context.Background(), "u-1", confirmReq(env.succeededIntent(t), "10:00")); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	free, err := env.svc.VerifySlot(models.VerifySlotRequest{
		StationID: "st-1", ChargingPointID: "cp-1", Date: "2026-09-02", StartTime: "10:30", Duration: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free {
		t.Errorf("overlapping slot reported free")
	}

	free, err = env.svc.VerifySlot(models.VerifySlotRequest{
		StationID: "st-1", ChargingPointID: "cp-1", Date: "2026-09-02", StartTime: "11:00", Duration: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free {
		t.Errorf("touching slot reported busy")
	}

	// A different point on the same date is independent.
	free, err = env.svc.VerifySlot(models.VerifySlotRequest{
		StationID: "st-1", ChargingPointID: "cp-2", Date: "2026-09-02", StartTime: "10:00", Duration: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free {
		t.Errorf("other charging point reported busy")
	}
}

func TestRebuildStationIndex(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	b1, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(env.succeededIntent(t), "10:00"))
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	b2, err := env.svc.ConfirmBooking(ctx, "u-1", confirmReq(env.succeededIntent(t), "12:00"))
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	if _, err := env.svc.CancelBooking(ctx, b2.ID, "u-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if err := env.svc.RebuildStationIndex("st-1"); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	refs := env.stations.replaced["st-1"]
	if len(refs) != 1 || refs[0].BookingID != b1.ID {
		t.Errorf("rebuilt index = %+v, want only %s", refs, b1.ID)
	}

	if err := env.svc.RebuildStationIndex("missing"); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown station: want notFound, got %v", err)
	}
}
