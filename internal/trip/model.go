package trip

import "time"

// LegType distinguishes the outbound and return legs of a ride day
type LegType string

const (
	LegOutbound LegType = "ida"
	LegReturn   LegType = "volta"
)

// Trip represents one scheduled ride instance (table viagens)
type Trip struct {
	ID            int64     `json:"id"`
	GroupID       int64     `json:"group_id"`
	Date          time.Time `json:"date"`
	Leg           LegType   `json:"leg"`
	DepartureTime string    `json:"departure_time"` // "HH:MM"
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
