package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cajurona/backend/internal/group"
	"github.com/cajurona/backend/internal/trip"
	"github.com/cajurona/backend/internal/user"
	mw "github.com/cajurona/backend/pkg/middleware"
)

type fakeGroups struct {
	profile  *group.MemberProfile
	byID     *group.Group
	byJID    *group.Group
	member   *group.MemberProfile
	isDriver bool
	joined   []*group.Member
	joinErr  error
}

func (f *fakeGroups) ResolveMemberByPhone(ctx context.Context, rawPhone, participantID string) (*group.MemberProfile, error) {
	return f.profile, nil
}

func (f *fakeGroups) GetByID(ctx context.Context, id int64) (*group.Group, error) {
	return f.byID, nil
}

func (f *fakeGroups) GetByWhatsAppID(ctx context.Context, whatsappGroupID string) (*group.Group, error) {
	return f.byJID, nil
}

func (f *fakeGroups) DriverMatchesPhone(ctx context.Context, g *group.Group, rawPhone string) (bool, error) {
	return f.isDriver, nil
}

func (f *fakeGroups) GetMember(ctx context.Context, groupID, userID int64) (*group.MemberProfile, error) {
	return f.member, nil
}

func (f *fakeGroups) Join(ctx context.Context, m *group.Member) (*group.Member, error) {
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	f.joined = append(f.joined, m)
	return m, nil
}

type fakeUsers struct {
	existing *user.User
	created  []*user.User
}

func (f *fakeUsers) FindByPhone(ctx context.Context, rawPhone string) (*user.User, error) {
	return f.existing, nil
}

func (f *fakeUsers) CreateFromWhatsApp(ctx context.Context, name, phone, whatsappID, oneTimePassword string) (*user.User, error) {
	u := &user.User{ID: int64(len(f.created) + 10), Name: name, Phone: phone}
	f.created = append(f.created, u)
	return u, nil
}

type fakePresences struct {
	confirmDays []string
	cancelDays  []string
}

func (f *fakePresences) Confirm(ctx context.Context, member *group.MemberProfile, g *group.Group, days []string, legs []trip.LegType) (string, error) {
	f.confirmDays = days
	return "presença confirmada", nil
}

func (f *fakePresences) Cancel(ctx context.Context, member *group.MemberProfile, g *group.Group, days []string, legs []trip.LegType, isDriver bool) (string, error) {
	f.cancelDays = days
	return "presença cancelada", nil
}

func (f *fakePresences) RegisterDelay(ctx context.Context, member *group.MemberProfile, g *group.Group, minutesLate int) (string, error) {
	return "atraso registrado", nil
}

func (f *fakePresences) StatusToday(ctx context.Context, g *group.Group) (string, error) {
	return "status de hoje", nil
}

type fakeBalances struct{}

func (fakeBalances) BalanceMessage(ctx context.Context, memberID int64, name string) (string, error) {
	return "saldo em dia", nil
}

type fakeSender struct {
	to   []string
	sent []string
}

func (f *fakeSender) SendText(ctx context.Context, number, text string) error {
	f.to = append(f.to, number)
	f.sent = append(f.sent, text)
	return nil
}

type fakeActivity struct {
	entries []*ActivityLog
}

func (f *fakeActivity) LogActivity(ctx context.Context, entry *ActivityLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fixtures struct {
	groups    *fakeGroups
	users     *fakeUsers
	presences *fakePresences
	sender    *fakeSender
	activity  *fakeActivity
}

func newTestService(f *fixtures) *Service {
	return NewService(f.groups, f.users, f.presences, fakeBalances{}, f.sender, f.activity)
}

func groupPayload(text string) string {
	return `{"data":{"key":{"fromMe":false,"remoteJid":"123@g.us","participant":"5583999990000@s.whatsapp.net"},"message":{"conversation":"` + text + `"}}}`
}

func postWebhook(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookSecretRejected(t *testing.T) {
	f := &fixtures{groups: &fakeGroups{}, users: &fakeUsers{}, presences: &fakePresences{}, sender: &fakeSender{}, activity: &fakeActivity{}}
	h := NewHandler(newTestService(f))
	guarded := mw.WebhookSecret("topsecret")(http.HandlerFunc(h.Webhook))

	rec := postWebhook(t, guarded, groupPayload("vou"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(groupPayload("oi")))
	req.Header.Set("X-Webhook-Secret", "topsecret")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with secret = %d, want 200", rec.Code)
	}
}

func TestWebhookMalformedBodyAcked(t *testing.T) {
	f := &fixtures{groups: &fakeGroups{}, users: &fakeUsers{}, presences: &fakePresences{}, sender: &fakeSender{}, activity: &fakeActivity{}}
	h := NewHandler(newTestService(f))

	rec := postWebhook(t, http.HandlerFunc(h.Webhook), "not json at all")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(f.sender.sent) != 0 || len(f.activity.entries) != 0 {
		t.Fatal("malformed payload must not produce replies or activity")
	}
}

func TestWebhookFromMeIgnored(t *testing.T) {
	f := &fixtures{groups: &fakeGroups{}, users: &fakeUsers{}, presences: &fakePresences{}, sender: &fakeSender{}, activity: &fakeActivity{}}
	h := NewHandler(newTestService(f))

	body := `{"data":{"key":{"fromMe":true,"remoteJid":"123@g.us","participant":"5583999990000@s.whatsapp.net"},"message":{"conversation":"vou"}}}`
	rec := postWebhook(t, http.HandlerFunc(h.Webhook), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(f.sender.sent) != 0 || len(f.activity.entries) != 0 {
		t.Fatal("own messages must be skipped")
	}
}

func TestWebhookMissingTextAcked(t *testing.T) {
	f := &fixtures{groups: &fakeGroups{}, users: &fakeUsers{}, presences: &fakePresences{}, sender: &fakeSender{}, activity: &fakeActivity{}}
	h := NewHandler(newTestService(f))

	body := `{"data":{"key":{"fromMe":false,"remoteJid":"123@g.us","participant":"5583999990000@s.whatsapp.net"},"message":{}}}`
	rec := postWebhook(t, http.HandlerFunc(h.Webhook), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(f.sender.sent) != 0 {
		t.Fatal("textless payload must not produce a reply")
	}
}

func TestWebhookDispatchesConfirm(t *testing.T) {
	profile := &group.MemberProfile{Member: group.Member{ID: 1, GroupID: 2}, Name: "Maria"}
	f := &fixtures{
		groups:    &fakeGroups{profile: profile, byID: &group.Group{ID: 2, Name: "Carona"}},
		users:     &fakeUsers{},
		presences: &fakePresences{},
		sender:    &fakeSender{},
		activity:  &fakeActivity{},
	}
	h := NewHandler(newTestService(f))

	rec := postWebhook(t, http.HandlerFunc(h.Webhook), groupPayload("vou sexta"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if len(f.presences.confirmDays) != 1 || f.presences.confirmDays[0] != "sex" {
		t.Fatalf("confirm days = %v, want [sex]", f.presences.confirmDays)
	}
	if len(f.sender.to) != 1 || f.sender.to[0] != "123@g.us" {
		t.Fatalf("reply target = %v, want the group JID", f.sender.to)
	}
	if len(f.activity.entries) != 1 {
		t.Fatalf("activity entries = %d, want 1", len(f.activity.entries))
	}
	entry := f.activity.entries[0]
	if entry.Action != "confirmar" || entry.EventID == "" {
		t.Fatalf("activity = %+v, want confirmar with an event id", entry)
	}
}

func TestExplicitOnboardingStoresExtractedDays(t *testing.T) {
	f := &fixtures{
		groups:    &fakeGroups{byJID: &group.Group{ID: 3, Name: "Carona"}},
		users:     &fakeUsers{},
		presences: &fakePresences{},
		sender:    &fakeSender{},
		activity:  &fakeActivity{},
	}
	s := newTestService(f)

	s.HandleMessage(context.Background(), IncomingMessage{
		Phone: "5583999990000", Text: "sou a Maria seg qua",
		IsGroup: true, GroupJID: "123@g.us", ReplyTo: "123@g.us",
	})

	if len(f.users.created) != 1 || f.users.created[0].Name != "Maria" {
		t.Fatalf("created users = %+v, want one named Maria", f.users.created)
	}
	if len(f.groups.joined) != 1 {
		t.Fatalf("memberships = %d, want 1", len(f.groups.joined))
	}
	m := f.groups.joined[0]
	if m.ApprovalStatus != group.ApprovalApproved {
		t.Errorf("approval = %q, want aprovado", m.ApprovalStatus)
	}
	if len(m.DefaultDays) != 2 || m.DefaultDays[0] != "seg" || m.DefaultDays[1] != "qua" {
		t.Errorf("default days = %v, want [seg qua]", m.DefaultDays)
	}
	if len(f.sender.sent) != 1 || !strings.Contains(f.sender.sent[0], "Maria") {
		t.Errorf("welcome reply = %v", f.sender.sent)
	}
}

func TestExplicitOnboardingWithoutDaysStoresNone(t *testing.T) {
	f := &fixtures{
		groups:    &fakeGroups{byJID: &group.Group{ID: 3, Name: "Carona"}},
		users:     &fakeUsers{},
		presences: &fakePresences{},
		sender:    &fakeSender{},
		activity:  &fakeActivity{},
	}
	s := newTestService(f)

	s.HandleMessage(context.Background(), IncomingMessage{
		Phone: "5583999990000", Text: "sou o Pedro",
		IsGroup: true, GroupJID: "123@g.us", ReplyTo: "123@g.us",
	})

	if len(f.groups.joined) != 1 {
		t.Fatalf("memberships = %d, want 1", len(f.groups.joined))
	}
	if len(f.groups.joined[0].DefaultDays) != 0 {
		t.Errorf("default days = %v, want none", f.groups.joined[0].DefaultDays)
	}
}

func TestExplicitOnboardingFallsBackToPlaceholderName(t *testing.T) {
	f := &fixtures{
		groups:    &fakeGroups{byJID: &group.Group{ID: 3, Name: "Carona"}},
		users:     &fakeUsers{},
		presences: &fakePresences{},
		sender:    &fakeSender{},
		activity:  &fakeActivity{},
	}
	s := newTestService(f)

	s.HandleMessage(context.Background(), IncomingMessage{
		Phone: "5583999990000", Text: "quero me cadastrar",
		IsGroup: true, GroupJID: "123@g.us", ReplyTo: "123@g.us",
	})

	if len(f.users.created) != 1 || f.users.created[0].Name != "Membro 0000" {
		t.Fatalf("created users = %+v, want one with the placeholder name", f.users.created)
	}
	if len(f.groups.joined) != 1 {
		t.Fatalf("memberships = %d, want 1", len(f.groups.joined))
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("replies = %v, want a welcome message", f.sender.sent)
	}
}

func TestAutoOnboardingIsSilentWithEmptyDays(t *testing.T) {
	f := &fixtures{
		groups:    &fakeGroups{byJID: &group.Group{ID: 3, Name: "Carona"}},
		users:     &fakeUsers{},
		presences: &fakePresences{},
		sender:    &fakeSender{},
		activity:  &fakeActivity{},
	}
	s := newTestService(f)

	s.HandleMessage(context.Background(), IncomingMessage{
		Phone: "5583999990000", Text: "chegando em cinco",
		IsGroup: true, GroupJID: "123@g.us", ReplyTo: "123@g.us",
	})

	if len(f.sender.sent) != 0 {
		t.Fatalf("replies = %v, want silence", f.sender.sent)
	}
	if len(f.users.created) != 1 {
		t.Fatalf("created users = %d, want 1", len(f.users.created))
	}
	if len(f.groups.joined) != 1 {
		t.Fatalf("memberships = %d, want 1", len(f.groups.joined))
	}
	if len(f.groups.joined[0].DefaultDays) != 0 {
		t.Errorf("default days = %v, want none", f.groups.joined[0].DefaultDays)
	}
}

func TestAutoOnboardingSkipsDriver(t *testing.T) {
	f := &fixtures{
		groups:    &fakeGroups{byJID: &group.Group{ID: 3, Name: "Carona"}, isDriver: true},
		users:     &fakeUsers{},
		presences: &fakePresences{},
		sender:    &fakeSender{},
		activity:  &fakeActivity{},
	}
	s := newTestService(f)

	s.HandleMessage(context.Background(), IncomingMessage{
		Phone: "5583999990000", Text: "bom dia pessoal",
		IsGroup: true, GroupJID: "123@g.us", ReplyTo: "123@g.us",
	})

	if len(f.users.created) != 0 || len(f.groups.joined) != 0 {
		t.Fatal("the driver's own messages must not create a membership")
	}
}
