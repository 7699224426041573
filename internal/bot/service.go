package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/cajurona/backend/internal/group"
	"github.com/cajurona/backend/internal/intent"
	"github.com/cajurona/backend/internal/trip"
	"github.com/cajurona/backend/internal/user"
)

const (
	msgTryAgain = "Ops, algo deu errado aqui. Tente novamente em instantes. 🙏"
	msgUnknown  = "Não entendi. 🤔 Digite *ajuda* para ver o que eu sei fazer."
	msgHelp     = "🚗 *Cajurona* — comandos:\n" +
		"• *vou* [dia] — confirma presença\n" +
		"• *não vou* [dia] — cancela presença\n" +
		"• *vou atrasar 15 min* — avisa atraso\n" +
		"• *quem vai* — status de hoje\n" +
		"• *quanto devo* — seu saldo"
	msgNotInGroup = "Você ainda não está em um grupo de carona cadastrado. 😕\n" +
		"Peça o link de convite ao motorista do seu grupo, ou envie *sou <seu nome>* aqui no grupo do WhatsApp para se cadastrar."
)

// Sender delivers replies through the messaging gateway
type Sender interface {
	SendText(ctx context.Context, number, text string) error
}

// GroupDirectory is the group-side surface the bot depends on
type GroupDirectory interface {
	ResolveMemberByPhone(ctx context.Context, rawPhone, participantID string) (*group.MemberProfile, error)
	GetByID(ctx context.Context, id int64) (*group.Group, error)
	GetByWhatsAppID(ctx context.Context, whatsappGroupID string) (*group.Group, error)
	DriverMatchesPhone(ctx context.Context, g *group.Group, rawPhone string) (bool, error)
	GetMember(ctx context.Context, groupID, userID int64) (*group.MemberProfile, error)
	Join(ctx context.Context, m *group.Member) (*group.Member, error)
}

// UserDirectory resolves and registers users during onboarding
type UserDirectory interface {
	FindByPhone(ctx context.Context, rawPhone string) (*user.User, error)
	CreateFromWhatsApp(ctx context.Context, name, phone, whatsappID, oneTimePassword string) (*user.User, error)
}

// PresenceEngine runs the presence state machine
type PresenceEngine interface {
	Confirm(ctx context.Context, member *group.MemberProfile, g *group.Group, days []string, legs []trip.LegType) (string, error)
	Cancel(ctx context.Context, member *group.MemberProfile, g *group.Group, days []string, legs []trip.LegType, isDriver bool) (string, error)
	RegisterDelay(ctx context.Context, member *group.MemberProfile, g *group.Group, minutesLate int) (string, error)
	StatusToday(ctx context.Context, g *group.Group) (string, error)
}

// BalanceReader renders member balances
type BalanceReader interface {
	BalanceMessage(ctx context.Context, memberID int64, name string) (string, error)
}

// ActivityStore persists the processed-message audit trail
type ActivityStore interface {
	LogActivity(ctx context.Context, entry *ActivityLog) error
}

// Service routes classified messages to the presence and ledger
// operations and composes the replies
type Service struct {
	groups    GroupDirectory
	users     UserDirectory
	presences PresenceEngine
	ledger    BalanceReader
	gateway   Sender
	activity  ActivityStore
}

// NewService creates a new bot service
func NewService(groups GroupDirectory, users UserDirectory, presences PresenceEngine, ledger BalanceReader, gateway Sender, activity ActivityStore) *Service {
	return &Service{
		groups:    groups,
		users:     users,
		presences: presences,
		ledger:    ledger,
		gateway:   gateway,
		activity:  activity,
	}
}

// HandleMessage processes one inbound message end to end: resolve the
// sender, classify, execute, reply, log. State mutations happen before
// the reply is sent; a failed send is logged and never rolled back.
func (s *Service) HandleMessage(ctx context.Context, msg IncomingMessage) {
	if msg.FromMe || msg.Text == "" || msg.Phone == "" {
		return
	}

	profile, err := s.groups.ResolveMemberByPhone(ctx, msg.Phone, msg.Participant)
	if err != nil {
		log.Printf("member resolution failed for %s: %v", msg.Phone, err)
		s.reply(ctx, msg, msgTryAgain)
		return
	}

	var action intent.Action
	var reply string

	if profile == nil {
		action, reply = s.handleUnknownSender(ctx, msg)
		if reply == "" {
			return
		}
	} else {
		classified := intent.Classify(msg.Text)
		action = classified.Action
		reply = s.dispatch(ctx, profile, classified)
	}

	s.reply(ctx, msg, reply)
	s.logActivity(ctx, msg, action, reply)
}

func (s *Service) reply(ctx context.Context, msg IncomingMessage, text string) {
	if text == "" {
		return
	}
	if err := s.gateway.SendText(ctx, msg.ReplyTo, text); err != nil {
		log.Printf("reply to %s failed: %v", msg.ReplyTo, err)
	}
}

func (s *Service) logActivity(ctx context.Context, msg IncomingMessage, action intent.Action, reply string) {
	if err := s.activity.LogActivity(ctx, &ActivityLog{
		EventID: uuid.NewString(),
		Phone:   msg.Phone,
		Message: msg.Text,
		Action:  string(action),
		Reply:   reply,
	}); err != nil {
		log.Printf("activity log failed: %v", err)
	}
}

func (s *Service) dispatch(ctx context.Context, profile *group.MemberProfile, classified intent.Intent) string {
	g, err := s.groups.GetByID(ctx, profile.GroupID)
	if err != nil {
		log.Printf("group load failed for member %d: %v", profile.ID, err)
		return msgTryAgain
	}

	var reply string

	switch classified.Action {
	case intent.ActionConfirmar:
		reply, err = s.presences.Confirm(ctx, profile, g, classified.Days, nil)
	case intent.ActionCancelar:
		reply, err = s.presences.Cancel(ctx, profile, g, classified.Days, nil, profile.IsDriver)
	case intent.ActionAtraso:
		if classified.Minutes == nil {
			return "Não entendi o atraso. ⏰ Diga algo como *vou atrasar 15 min* ou *chego 07:30*."
		}
		reply, err = s.presences.RegisterDelay(ctx, profile, g, *classified.Minutes)
	case intent.ActionStatus:
		reply, err = s.presences.StatusToday(ctx, g)
	case intent.ActionSaldo:
		reply, err = s.ledger.BalanceMessage(ctx, profile.ID, profile.Name)
	case intent.ActionAjuda:
		return msgHelp
	case intent.ActionSaudacao:
		return fmt.Sprintf("Oi, %s! 👋 Digite *ajuda* se precisar de alguma coisa.", profile.Name)
	default:
		return msgUnknown
	}

	if err != nil {
		log.Printf("%s failed for member %d: %v", classified.Action, profile.ID, err)
		return msgTryAgain
	}
	return reply
}

// handleUnknownSender runs onboarding for senders with no active
// membership. In groups, an explicit "sou ..." message gets the full
// registration flow with a reply; anything else triggers the silent
// auto-onboarding. Direct messages get pointed at the group.
func (s *Service) handleUnknownSender(ctx context.Context, msg IncomingMessage) (intent.Action, string) {
	if !msg.IsGroup {
		return intent.ActionDesconhecido, msgNotInGroup
	}

	if isOnboardingMessage(msg.Text) {
		return "cadastro", s.onboardExplicit(ctx, msg)
	}

	s.autoOnboard(ctx, msg)
	return intent.ActionDesconhecido, ""
}
