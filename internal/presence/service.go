package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/cajurona/backend/internal/group"
	"github.com/cajurona/backend/internal/intent"
	"github.com/cajurona/backend/internal/ledger"
	"github.com/cajurona/backend/internal/trip"
)

// Store persists presence rows
type Store interface {
	Upsert(ctx context.Context, p *Presence) (*Presence, error)
	GetByTripAndMember(ctx context.Context, tripID, memberID int64) (*Presence, error)
	StatusToday(ctx context.Context, groupID int64) ([]*StatusEntry, error)
}

// TripStore resolves scheduled trips
type TripStore interface {
	GetByGroupDateLeg(ctx context.Context, groupID int64, date time.Time, leg trip.LegType) (*trip.Trip, error)
}

// LedgerStore manages the debits tied to presences
type LedgerStore interface {
	HasDebitForPresence(ctx context.Context, presenceID int64) (bool, error)
	CreateDebit(ctx context.Context, t *ledger.Transaction) (*ledger.Transaction, error)
	DeleteDebitByPresence(ctx context.Context, presenceID int64) (float64, error)
}

// Service implements the presence state machine and its billing rules
type Service struct {
	store  Store
	trips  TripStore
	ledger LedgerStore
	now    func() time.Time
}

// NewService creates a new presence service
func NewService(store Store, trips TripStore, ledgerStore LedgerStore) *Service {
	return &Service{store: store, trips: trips, ledger: ledgerStore, now: time.Now}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}

// parseClock reads the hour and minute of an "HH:MM" or "HH:MM:SS" string
func parseClock(s string) (int, int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, 0, fmt.Errorf("failed to parse clock %q: %w", s, err)
	}
	return h, m, nil
}

// Confirm marks the member present on the requested days. Days that
// resolve to a past date, or have no scheduled trip, are skipped. Under
// per-trip pricing each newly billed presence gets exactly one debit.
func (s *Service) Confirm(ctx context.Context, member *group.MemberProfile, g *group.Group, days []string, legs []trip.LegType) (string, error) {
	if len(legs) == 0 {
		legs = []trip.LegType{trip.LegOutbound}
	}

	now := s.now()
	today := dateOf(now)

	var confirmed []string
	var totalDebited float64

	for _, day := range days {
		date, ok := intent.ResolveDate(day, now)
		if !ok || date.Before(today) {
			continue
		}

		found := false
		for _, leg := range legs {
			t, err := s.trips.GetByGroupDateLeg(ctx, g.ID, date, leg)
			if err != nil {
				return "", err
			}
			if t == nil {
				continue
			}
			found = true

			confirmedAt := now
			p, err := s.store.Upsert(ctx, &Presence{
				TripID:      t.ID,
				MemberID:    member.ID,
				Status:      StatusConfirmed,
				ConfirmedAt: &confirmedAt,
			})
			if err != nil {
				return "", err
			}

			if g.PricingModel != group.PricingPerTrip || g.PerTripPrice == nil || *g.PerTripPrice <= 0 {
				continue
			}

			exists, err := s.ledger.HasDebitForPresence(ctx, p.ID)
			if err != nil {
				return "", err
			}
			if exists {
				continue
			}

			presenceID := p.ID
			if _, err := s.ledger.CreateDebit(ctx, &ledger.Transaction{
				GroupID:     g.ID,
				MemberID:    member.ID,
				PresenceID:  &presenceID,
				Amount:      *g.PerTripPrice,
				Description: fmt.Sprintf("Viagem de %s em %s", legLabel(leg), date.Format("02/01")),
			}); err != nil {
				return "", err
			}
			totalDebited += *g.PerTripPrice
		}

		if found {
			confirmed = appendUnique(confirmed, intent.DayName(day))
		}
	}

	if len(confirmed) == 0 {
		return msgNoTrips, nil
	}

	return confirmReply(confirmed, totalDebited), nil
}

// Cancel marks the member absent on the requested days. Same-day
// cancellations by non-drivers are blocked once the group's cancellation
// window has closed; drivers are exempt. Under per-trip pricing the debit
// linked to each cancelled presence is removed and refunded.
func (s *Service) Cancel(ctx context.Context, member *group.MemberProfile, g *group.Group, days []string, legs []trip.LegType, isDriver bool) (string, error) {
	if len(legs) == 0 {
		legs = []trip.LegType{trip.LegOutbound}
	}

	now := s.now()
	today := dateOf(now)
	window := time.Duration(g.CancelWindowMin) * time.Minute

	var cancelled, blocked []string
	var totalRefunded float64

	for _, day := range days {
		date, ok := intent.ResolveDate(day, now)
		if !ok {
			continue
		}

		for _, leg := range legs {
			if date.Equal(today) && !isDriver {
				sched := g.DepartureTime
				if leg == trip.LegReturn {
					sched = g.ReturnTime
				}
				h, m, err := parseClock(sched)
				if err != nil {
					return "", err
				}
				cutoff := date.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute).Add(-window)
				if !now.Before(cutoff) {
					blocked = appendUnique(blocked, intent.DayName(day))
					continue
				}
			}

			t, err := s.trips.GetByGroupDateLeg(ctx, g.ID, date, leg)
			if err != nil {
				return "", err
			}
			if t == nil {
				continue
			}

			existing, err := s.store.GetByTripAndMember(ctx, t.ID, member.ID)
			if err != nil {
				return "", err
			}

			if _, err := s.store.Upsert(ctx, &Presence{
				TripID:   t.ID,
				MemberID: member.ID,
				Status:   StatusCancelled,
			}); err != nil {
				return "", err
			}

			if g.PricingModel == group.PricingPerTrip && existing != nil {
				refunded, err := s.ledger.DeleteDebitByPresence(ctx, existing.ID)
				if err != nil {
					return "", err
				}
				totalRefunded += refunded
			}

			cancelled = appendUnique(cancelled, intent.DayName(day))
		}
	}

	return cancelReply(cancelled, blocked, totalRefunded, g.CancelWindowMin), nil
}

// RegisterDelay records that the member will arrive minutesLate after
// today's outbound departure. Arrival rolls minutes into hours only;
// delays spanning past midnight are out of scope.
func (s *Service) RegisterDelay(ctx context.Context, member *group.MemberProfile, g *group.Group, minutesLate int) (string, error) {
	now := s.now()
	today := dateOf(now)

	t, err := s.trips.GetByGroupDateLeg(ctx, g.ID, today, trip.LegOutbound)
	if err != nil {
		return "", err
	}
	if t == nil {
		return msgNoTripToday, nil
	}

	h, m, err := parseClock(t.DepartureTime)
	if err != nil {
		return "", err
	}
	total := m + minutesLate
	arrival := fmt.Sprintf("%02d:%02d", h+total/60, total%60)

	note := fmt.Sprintf("Avisou atraso de %d min pelo WhatsApp", minutesLate)
	if _, err := s.store.Upsert(ctx, &Presence{
		TripID:      t.ID,
		MemberID:    member.ID,
		Status:      StatusDelayed,
		ArrivalTime: &arrival,
		Note:        &note,
	}); err != nil {
		return "", err
	}

	return delayReply(member.Name, arrival), nil
}

// StatusToday composes the group's attendance summary for today's
// outbound leg
func (s *Service) StatusToday(ctx context.Context, g *group.Group) (string, error) {
	entries, err := s.store.StatusToday(ctx, g.ID)
	if err != nil {
		return "", err
	}

	var confirmed, delayed []*StatusEntry
	for _, e := range entries {
		switch e.Status {
		case StatusConfirmed:
			confirmed = append(confirmed, e)
		case StatusDelayed:
			delayed = append(delayed, e)
		}
	}

	if len(confirmed)+len(delayed) == 0 {
		return msgNobodyYet, nil
	}

	return statusReply(s.now().Format("02/01"), confirmed, delayed, g), nil
}

func legLabel(leg trip.LegType) string {
	if leg == trip.LegReturn {
		return "volta"
	}
	return "ida"
}
