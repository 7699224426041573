package group

import "time"

// PricingModel defines how a group charges its riders
type PricingModel string

const (
	PricingWeekly  PricingModel = "semanal"
	PricingPerTrip PricingModel = "por_trajeto"
)

// ApprovalStatus represents the state of a membership request
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pendente"
	ApprovalApproved ApprovalStatus = "aprovado"
	ApprovalRejected ApprovalStatus = "rejeitado"
)

// Group represents a recurring-ride circle (table grupos)
type Group struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	DriverID        *int64       `json:"driver_id,omitempty"`
	DepartureTime   string       `json:"departure_time"` // "HH:MM"
	ReturnTime      string       `json:"return_time"`
	PricingModel    PricingModel `json:"pricing_model"`
	WeeklyPrice     *float64     `json:"weekly_price,omitempty"`
	PerTripPrice    *float64     `json:"per_trip_price,omitempty"`
	CancelWindowMin int          `json:"cancel_window_min"`
	WhatsAppGroupID *string      `json:"whatsapp_group_id,omitempty"`
	InviteLink      *string      `json:"invite_link,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Member represents a user's membership in a group (table membros)
type Member struct {
	ID             int64          `json:"id"`
	GroupID        int64          `json:"group_id"`
	UserID         int64          `json:"user_id"`
	IsDriver       bool           `json:"is_driver"`
	Active         bool           `json:"active"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	DefaultDays    []string       `json:"default_days"`
	CreatedAt      time.Time      `json:"created_at"`
}

// MemberProfile is the read-side projection the bot and handlers operate
// on: the membership row flattened with identity fields copied up from
// the user. It is built by an explicit join, never stored.
type MemberProfile struct {
	Member
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	WhatsAppID *string `json:"whatsapp_id,omitempty"`
}
