package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/cajurona/backend/internal/group"
	"github.com/cajurona/backend/internal/intent"
)

const msgGroupNotRegistered = "Este grupo ainda não está cadastrado na Cajurona. 😕 Peça ao motorista para criar o grupo no painel."

var (
	reOnboarding = regexp.MustCompile(`(?i)\bsou\b|\bcadastr`)
	reName       = regexp.MustCompile(`(?i)\bsou\s+(?:o\s+|a\s+)?([\p{L}]+(?:\s+[\p{L}]+)?)`)
)

// isOnboardingMessage reports whether the text looks like an explicit
// registration attempt ("sou a Maria", "quero me cadastrar")
func isOnboardingMessage(text string) bool {
	return reOnboarding.MatchString(text)
}

// extractName pulls a display name out of a "sou ..." message, trimming
// day mentions that belong to the schedule part ("sou o João seg qua")
func extractName(text string) string {
	m := reName.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	words := strings.Fields(m[1])
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if len(intent.LiteralDays(w)) > 0 {
			break
		}
		kept = append(kept, w)
	}

	return strings.Join(kept, " ")
}

// onboardExplicit registers a sender who introduced themselves in the
// group chat. The membership is approved immediately: the driver added
// them to the WhatsApp group, which is the approval.
func (s *Service) onboardExplicit(ctx context.Context, msg IncomingMessage) string {
	g, err := s.groups.GetByWhatsAppID(ctx, msg.GroupJID)
	if err != nil {
		log.Printf("group lookup failed for %s: %v", msg.GroupJID, err)
		return msgTryAgain
	}
	if g == nil {
		return msgGroupNotRegistered
	}

	name := extractName(msg.Text)
	if name == "" {
		name = placeholderName(msg.Phone)
	}

	days := intent.LiteralDays(msg.Text)
	if days == nil {
		days = []string{}
	}

	u, err := s.users.FindByPhone(ctx, msg.Phone)
	if err != nil {
		log.Printf("user lookup failed for %s: %v", msg.Phone, err)
		return msgTryAgain
	}
	if u == nil {
		u, err = s.users.CreateFromWhatsApp(ctx, name, msg.Phone, msg.Participant, oneTimePassword())
		if err != nil {
			log.Printf("user creation failed for %s: %v", msg.Phone, err)
			return msgTryAgain
		}
	}

	if _, err := s.groups.Join(ctx, &group.Member{
		GroupID:        g.ID,
		UserID:         u.ID,
		Active:         true,
		ApprovalStatus: group.ApprovalApproved,
		DefaultDays:    days,
	}); err != nil {
		if errors.Is(err, group.ErrMemberAlreadyExists) {
			return fmt.Sprintf("Você já está cadastrado no grupo *%s*, %s! 😉", g.Name, u.Name)
		}
		log.Printf("membership creation failed for user %d: %v", u.ID, err)
		return msgTryAgain
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Bem-vindo(a) à carona *%s*, %s! 🎉", g.Name, name)
	if len(days) > 0 {
		dayList := make([]string, 0, len(days))
		for _, d := range days {
			dayList = append(dayList, intent.DayName(d))
		}
		fmt.Fprintf(&b, "\nSeus dias: %s.", strings.Join(dayList, ", "))
	}
	b.WriteString("\nDiga *vou* para confirmar presença e *ajuda* para ver os comandos.")

	return b.String()
}

// autoOnboard silently registers an unknown participant seen talking in
// a registered group. No reply is sent; the first recognized command
// will answer normally.
func (s *Service) autoOnboard(ctx context.Context, msg IncomingMessage) {
	g, err := s.groups.GetByWhatsAppID(ctx, msg.GroupJID)
	if err != nil || g == nil {
		return
	}

	if isDriver, err := s.groups.DriverMatchesPhone(ctx, g, msg.Phone); err != nil || isDriver {
		return
	}

	u, err := s.users.FindByPhone(ctx, msg.Phone)
	if err != nil {
		return
	}
	if u == nil {
		name := placeholderName(msg.Phone)
		u, err = s.users.CreateFromWhatsApp(ctx, name, msg.Phone, msg.Participant, oneTimePassword())
		if err != nil {
			log.Printf("auto-onboarding user creation failed for %s: %v", msg.Phone, err)
			return
		}
	} else if existing, err := s.groups.GetMember(ctx, g.ID, u.ID); err != nil || existing != nil {
		return
	}

	// silent path: no schedule was stated, so no default days are assumed
	if _, err := s.groups.Join(ctx, &group.Member{
		GroupID:        g.ID,
		UserID:         u.ID,
		Active:         true,
		ApprovalStatus: group.ApprovalApproved,
		DefaultDays:    []string{},
	}); err != nil && !errors.Is(err, group.ErrMemberAlreadyExists) {
		log.Printf("auto-onboarding membership failed for user %d: %v", u.ID, err)
	}
}

// placeholderName labels a member registered without a stated name,
// until they introduce themselves or fix it on the dashboard
func placeholderName(phone string) string {
	suffix := phone
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "Membro " + suffix
}

func oneTimePassword() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
