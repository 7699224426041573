package group

// CreateGroupRequest represents the request to create a new group.
// When CreateWhatsAppGroup is set the messaging gateway is asked to
// create the corresponding WhatsApp group and its invite link.
type CreateGroupRequest struct {
	Name                string       `json:"name" validate:"required,min=1,max=100"`
	DriverID            *int64       `json:"driver_id,omitempty"`
	DepartureTime       string       `json:"departure_time"`
	ReturnTime          string       `json:"return_time"`
	PricingModel        PricingModel `json:"pricing_model"`
	WeeklyPrice         *float64     `json:"weekly_price,omitempty"`
	PerTripPrice        *float64     `json:"per_trip_price,omitempty"`
	CancelWindowMin     int          `json:"cancel_window_min"`
	CreateWhatsAppGroup bool         `json:"create_whatsapp_group"`
	Participants        []string     `json:"participants,omitempty"`
}

// UpdateMemberRequest changes a membership's approval status
type UpdateMemberRequest struct {
	ApprovalStatus ApprovalStatus `json:"approval_status" validate:"required"`
}

// GroupResponse represents a group with its members
type GroupResponse struct {
	*Group
	Members []*MemberProfile `json:"members,omitempty"`
}
