package presence

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cajurona/backend/internal/group"
	"github.com/cajurona/backend/internal/ledger"
	"github.com/cajurona/backend/internal/trip"
)

type presenceKey struct {
	tripID   int64
	memberID int64
}

type fakeStore struct {
	rows    map[presenceKey]*Presence
	nextID  int64
	entries []*StatusEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[presenceKey]*Presence)}
}

func (f *fakeStore) Upsert(_ context.Context, p *Presence) (*Presence, error) {
	key := presenceKey{p.TripID, p.MemberID}
	if existing, ok := f.rows[key]; ok {
		p.ID = existing.ID
	} else {
		f.nextID++
		p.ID = f.nextID
	}
	saved := *p
	f.rows[key] = &saved
	return &saved, nil
}

func (f *fakeStore) GetByTripAndMember(_ context.Context, tripID, memberID int64) (*Presence, error) {
	if p, ok := f.rows[presenceKey{tripID, memberID}]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) StatusToday(_ context.Context, _ int64) ([]*StatusEntry, error) {
	return f.entries, nil
}

type fakeTrips struct {
	trips map[string]*trip.Trip
}

func tripKey(groupID int64, date time.Time, leg trip.LegType) string {
	return fmt.Sprintf("%d|%s|%s", groupID, date.Format("2006-01-02"), leg)
}

func (f *fakeTrips) GetByGroupDateLeg(_ context.Context, groupID int64, date time.Time, leg trip.LegType) (*trip.Trip, error) {
	return f.trips[tripKey(groupID, date, leg)], nil
}

type fakeLedger struct {
	debits map[int64]*ledger.Transaction
	nextID int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{debits: make(map[int64]*ledger.Transaction)}
}

func (f *fakeLedger) HasDebitForPresence(_ context.Context, presenceID int64) (bool, error) {
	_, ok := f.debits[presenceID]
	return ok, nil
}

func (f *fakeLedger) CreateDebit(_ context.Context, t *ledger.Transaction) (*ledger.Transaction, error) {
	f.nextID++
	t.ID = f.nextID
	f.debits[*t.PresenceID] = t
	return t, nil
}

func (f *fakeLedger) DeleteDebitByPresence(_ context.Context, presenceID int64) (float64, error) {
	t, ok := f.debits[presenceID]
	if !ok {
		return 0, nil
	}
	delete(f.debits, presenceID)
	return t.Amount, nil
}

func floatPtr(v float64) *float64 { return &v }

// 2026-03-04 is a Wednesday
var testNow = time.Date(2026, 3, 4, 6, 0, 0, 0, time.Local)

func testSetup(g *group.Group) (*Service, *fakeStore, *fakeTrips, *fakeLedger) {
	store := newFakeStore()
	trips := &fakeTrips{trips: make(map[string]*trip.Trip)}
	led := newFakeLedger()

	today := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)
	trips.trips[tripKey(g.ID, today, trip.LegOutbound)] = &trip.Trip{
		ID: 10, GroupID: g.ID, Date: today, Leg: trip.LegOutbound, DepartureTime: "07:30",
	}

	svc := NewService(store, trips, led)
	svc.now = func() time.Time { return testNow }
	return svc, store, trips, led
}

func perTripGroup() *group.Group {
	return &group.Group{
		ID:              1,
		Name:            "Carona UFPB",
		DepartureTime:   "07:30",
		ReturnTime:      "17:30",
		PricingModel:    group.PricingPerTrip,
		PerTripPrice:    floatPtr(5),
		CancelWindowMin: 30,
	}
}

func testMember() *group.MemberProfile {
	p := &group.MemberProfile{Name: "Ana", Phone: "5583999990000"}
	p.ID = 7
	p.GroupID = 1
	return p
}

func TestConfirmCreatesExactlyOneDebit(t *testing.T) {
	g := perTripGroup()
	svc, store, _, led := testSetup(g)
	member := testMember()

	reply, err := svc.Confirm(context.Background(), member, g, []string{"hoje"}, nil)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !strings.Contains(reply, "R$ 5,00") {
		t.Fatalf("first confirmation must report the debit, got %q", reply)
	}

	// confirming again must overwrite the row, not duplicate it or the debit
	reply, err = svc.Confirm(context.Background(), member, g, []string{"hoje"}, nil)
	if err != nil {
		t.Fatalf("Confirm (second): %v", err)
	}
	if strings.Contains(reply, "Total debitado") {
		t.Fatalf("second confirmation must not debit again, got %q", reply)
	}

	if len(store.rows) != 1 {
		t.Fatalf("presence rows = %d, want 1", len(store.rows))
	}
	if len(led.debits) != 1 {
		t.Fatalf("debits = %d, want 1", len(led.debits))
	}
}

func TestConfirmNoTrips(t *testing.T) {
	g := perTripGroup()
	svc, _, trips, _ := testSetup(g)
	trips.trips = make(map[string]*trip.Trip)

	reply, err := svc.Confirm(context.Background(), testMember(), g, []string{"hoje"}, nil)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !strings.Contains(reply, "não encontrei viagens") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestConfirmThenCancelRefundsDebit(t *testing.T) {
	g := perTripGroup()
	svc, _, _, led := testSetup(g)
	member := testMember()

	if _, err := svc.Confirm(context.Background(), member, g, []string{"hoje"}, nil); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// driver cancels on behalf of the member: exempt from the window check
	reply, err := svc.Cancel(context.Background(), member, g, []string{"hoje"}, nil, true)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !strings.Contains(reply, "Total estornado: R$ 5,00") {
		t.Fatalf("refund must equal the original debit, got %q", reply)
	}
	if len(led.debits) != 0 {
		t.Fatalf("debits = %d, want 0 after cancellation", len(led.debits))
	}
}

func TestCancelWindowBoundary(t *testing.T) {
	g := perTripGroup() // departure 07:30, window 30 → cutoff 07:00
	member := testMember()

	// at exactly the cutoff the cancellation is blocked
	svc, store, _, _ := testSetup(g)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 7, 0, 0, 0, time.Local) }

	reply, err := svc.Cancel(context.Background(), member, g, []string{"hoje"}, nil, false)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !strings.Contains(reply, "prazo de cancelamento é de 30 minutos") {
		t.Fatalf("expected blocked reply, got %q", reply)
	}
	if len(store.rows) != 0 {
		t.Fatalf("blocked cancellation must not mutate state")
	}

	// one minute earlier it succeeds
	svc, store, _, _ = testSetup(g)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 6, 59, 0, 0, time.Local) }

	reply, err = svc.Cancel(context.Background(), member, g, []string{"hoje"}, nil, false)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !strings.Contains(reply, "Presença cancelada") {
		t.Fatalf("expected cancellation reply, got %q", reply)
	}
	if p := store.rows[presenceKey{10, member.ID}]; p == nil || p.Status != StatusCancelled {
		t.Fatalf("presence not cancelled: %+v", p)
	}
}

func TestCancelDriverExemptFromWindow(t *testing.T) {
	g := perTripGroup()
	svc, store, _, _ := testSetup(g)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 7, 25, 0, 0, time.Local) }

	reply, err := svc.Cancel(context.Background(), testMember(), g, []string{"hoje"}, nil, true)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !strings.Contains(reply, "Presença cancelada") {
		t.Fatalf("driver cancellation must succeed past the window, got %q", reply)
	}
	if len(store.rows) != 1 {
		t.Fatalf("presence row missing")
	}
}

func TestRegisterDelay(t *testing.T) {
	g := perTripGroup()
	svc, store, _, _ := testSetup(g)
	member := testMember()

	reply, err := svc.RegisterDelay(context.Background(), member, g, 45)
	if err != nil {
		t.Fatalf("RegisterDelay: %v", err)
	}
	if !strings.Contains(reply, "08:15") {
		t.Fatalf("arrival must be departure+delay, got %q", reply)
	}

	p := store.rows[presenceKey{10, member.ID}]
	if p == nil || p.Status != StatusDelayed {
		t.Fatalf("presence not delayed: %+v", p)
	}
	if p.ArrivalTime == nil || *p.ArrivalTime != "08:15" {
		t.Fatalf("arrival time = %v, want 08:15", p.ArrivalTime)
	}
}

func TestRegisterDelayNoTripToday(t *testing.T) {
	g := perTripGroup()
	svc, _, trips, _ := testSetup(g)
	trips.trips = make(map[string]*trip.Trip)

	reply, err := svc.RegisterDelay(context.Background(), testMember(), g, 15)
	if err != nil {
		t.Fatalf("RegisterDelay: %v", err)
	}
	if !strings.Contains(reply, "Não encontrei viagem") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestStatusTodayWeeklyPerPersonPrice(t *testing.T) {
	g := &group.Group{
		ID:           1,
		PricingModel: group.PricingWeekly,
		WeeklyPrice:  floatPtr(50),
	}
	svc, store, _, _ := testSetup(g)

	arrival := "07:50"
	store.entries = []*StatusEntry{
		{MemberID: 1, Name: "Ana", Status: StatusConfirmed},
		{MemberID: 2, Name: "Bruno", Status: StatusDelayed, ArrivalTime: &arrival},
	}

	reply, err := svc.StatusToday(context.Background(), g)
	if err != nil {
		t.Fatalf("StatusToday: %v", err)
	}
	if !strings.Contains(reply, "Ana") || !strings.Contains(reply, "Bruno (chega 07:50)") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if !strings.Contains(reply, "Valor por pessoa: R$ 25,00") {
		t.Fatalf("weekly price must be split per head, got %q", reply)
	}
}

func TestStatusTodayPerTripModelHasNoPerPersonPrice(t *testing.T) {
	g := perTripGroup()
	g.WeeklyPrice = floatPtr(50) // set but meaningless under per-trip pricing
	svc, store, _, _ := testSetup(g)

	store.entries = []*StatusEntry{
		{MemberID: 1, Name: "Ana", Status: StatusConfirmed},
	}

	reply, err := svc.StatusToday(context.Background(), g)
	if err != nil {
		t.Fatalf("StatusToday: %v", err)
	}
	if strings.Contains(reply, "Valor por pessoa") {
		t.Fatalf("per-trip groups must not show a per-person share, got %q", reply)
	}
}

func TestStatusTodayEmpty(t *testing.T) {
	g := perTripGroup()
	svc, _, _, _ := testSetup(g)

	reply, err := svc.StatusToday(context.Background(), g)
	if err != nil {
		t.Fatalf("StatusToday: %v", err)
	}
	if !strings.Contains(reply, "Ninguém confirmou") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}
