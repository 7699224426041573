package presence

import "time"

// Status is a member's state for one trip. Transitions are idempotent
// upserts keyed by (trip, member); no history is kept beyond the debit
// trail in transacoes.
type Status string

const (
	StatusConfirmed Status = "confirmado"
	StatusCancelled Status = "cancelado"
	StatusDelayed   Status = "atrasado"
)

// Presence represents a member's status for one trip (table presencas,
// unique on trip+member)
type Presence struct {
	ID          int64      `json:"id"`
	TripID      int64      `json:"trip_id"`
	MemberID    int64      `json:"member_id"`
	Status      Status     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ArrivalTime *string    `json:"arrival_time,omitempty"` // "HH:MM", delays only
	Note        *string    `json:"note,omitempty"`
}

// StatusEntry is one row of the materialized status view
// (vw_status_semana) filtered to today's outbound leg
type StatusEntry struct {
	MemberID    int64   `json:"member_id"`
	Name        string  `json:"name"`
	Status      Status  `json:"status"`
	ArrivalTime *string `json:"arrival_time,omitempty"`
}
