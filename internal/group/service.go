package group

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/cajurona/backend/internal/intent"
	"github.com/cajurona/backend/internal/trip"
	"github.com/cajurona/backend/internal/user"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNoWhatsAppGroup     = errors.New("group has no linked whatsapp group")
)

// Gateway is the messaging-side surface the group service depends on
type Gateway interface {
	CreateGroup(ctx context.Context, subject string, participants []string) (string, error)
	GetInviteLink(ctx context.Context, groupJID string) (string, error)
	RenewInviteLink(ctx context.Context, groupJID string) (string, error)
}

// Service handles group business logic
type Service struct {
	repo    *Repository
	users   *user.Repository
	trips   *trip.Repository
	gateway Gateway
}

// NewService creates a new group service
func NewService(repo *Repository, users *user.Repository, trips *trip.Repository, gateway Gateway) *Service {
	return &Service{repo: repo, users: users, trips: trips, gateway: gateway}
}

// Create creates a group, schedules the week's trips (five weekdays, both
// legs) and optionally creates the WhatsApp group through the gateway.
// Gateway failures do not roll back the stored group.
func (s *Service) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	g, err := s.repo.CreateGroup(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, token := range intent.AllDayTokens {
		date, ok := intent.ResolveDate(token, now)
		if !ok {
			continue
		}
		if err := s.trips.CreatePair(ctx, g.ID, date, g.DepartureTime, g.ReturnTime); err != nil {
			return nil, err
		}
	}

	if req.DriverID != nil {
		if _, err := s.repo.AddMember(ctx, &Member{
			GroupID:        g.ID,
			UserID:         *req.DriverID,
			IsDriver:       true,
			Active:         true,
			ApprovalStatus: ApprovalApproved,
			DefaultDays:    intent.AllDayTokens,
		}); err != nil {
			return nil, err
		}
	}

	if req.CreateWhatsAppGroup {
		jid, err := s.gateway.CreateGroup(ctx, req.Name, req.Participants)
		if err != nil {
			log.Printf("whatsapp group creation failed for group %d: %v", g.ID, err)
			return g, nil
		}

		var link *string
		if l, err := s.gateway.GetInviteLink(ctx, jid); err == nil {
			link = &l
		} else {
			log.Printf("invite link fetch failed for group %d: %v", g.ID, err)
		}

		if err := s.repo.SetWhatsAppGroup(ctx, g.ID, &jid, link); err != nil {
			return nil, err
		}
		g.WhatsAppGroupID = &jid
		g.InviteLink = link
	}

	return g, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	g, err := s.repo.GetGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*MemberProfile, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembersByGroup(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return g, members, nil
}

// GetByWhatsAppID retrieves a group by messaging-group id; nil means unknown
func (s *Service) GetByWhatsAppID(ctx context.Context, whatsappGroupID string) (*Group, error) {
	return s.repo.GetGroupByWhatsAppID(ctx, whatsappGroupID)
}

// List retrieves groups with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListGroups(ctx, perPage, offset)
}

// Join adds a membership, translating duplicate-key violations into
// ErrMemberAlreadyExists
func (s *Service) Join(ctx context.Context, m *Member) (*Member, error) {
	created, err := s.repo.AddMember(ctx, m)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrMemberAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetMember retrieves a membership by group and user; nil means the
// user has no membership in that group
func (s *Service) GetMember(ctx context.Context, groupID, userID int64) (*MemberProfile, error) {
	return s.repo.GetMember(ctx, groupID, userID)
}

// UpdateMemberApproval transitions a member's approval status
func (s *Service) UpdateMemberApproval(ctx context.Context, memberID int64, status ApprovalStatus) (*MemberProfile, error) {
	p, err := s.repo.UpdateMemberApproval(ctx, memberID, status)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrMemberNotFound
	}
	return p, nil
}

// ResolveMemberByPhone maps a raw phone (plus optional gateway participant
// id) to the sender's active membership profile. A nil profile is not an
// error; it signals the sender still needs onboarding. The gateway id is
// backfilled on the user record the first time it is seen.
func (s *Service) ResolveMemberByPhone(ctx context.Context, rawPhone, participantID string) (*MemberProfile, error) {
	u, err := s.users.GetByPhoneCandidates(ctx, user.PhoneCandidates(rawPhone))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if u.WhatsAppID == nil && participantID != "" {
		if err := s.users.UpdateWhatsAppID(ctx, u.ID, participantID); err != nil {
			log.Printf("whatsapp id backfill failed for user %d: %v", u.ID, err)
		} else {
			u.WhatsAppID = &participantID
		}
	}

	profile, err := s.repo.GetActiveProfileByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	profile.Name = u.Name
	profile.Phone = u.Phone
	profile.WhatsAppID = u.WhatsAppID
	return profile, nil
}

// DriverMatchesPhone reports whether the raw phone belongs to the group's
// designated driver, comparing across all normalized formats
func (s *Service) DriverMatchesPhone(ctx context.Context, g *Group, rawPhone string) (bool, error) {
	if g.DriverID == nil {
		return false, nil
	}

	driver, err := s.users.GetByID(ctx, *g.DriverID)
	if err != nil {
		return false, err
	}
	if driver == nil {
		return false, nil
	}

	driverFormats := make(map[string]bool)
	for _, c := range user.PhoneCandidates(driver.Phone) {
		driverFormats[c] = true
	}
	for _, c := range user.PhoneCandidates(rawPhone) {
		if driverFormats[c] {
			return true, nil
		}
	}

	return false, nil
}

// RenewInviteLink revokes and refetches the group's invite link
func (s *Service) RenewInviteLink(ctx context.Context, groupID int64) (string, error) {
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return "", err
	}
	if g.WhatsAppGroupID == nil {
		return "", ErrNoWhatsAppGroup
	}

	link, err := s.gateway.RenewInviteLink(ctx, *g.WhatsAppGroupID)
	if err != nil {
		return "", err
	}

	if err := s.repo.SetWhatsAppGroup(ctx, groupID, nil, &link); err != nil {
		return "", err
	}

	return link, nil
}
