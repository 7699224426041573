package bot

import "strings"

// WebhookPayload mirrors the gateway's message event shape
type WebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Key struct {
			FromMe      bool   `json:"fromMe"`
			RemoteJid   string `json:"remoteJid"`
			Participant string `json:"participant"`
		} `json:"key"`
		PushName string `json:"pushName"`
		Message  struct {
			Conversation        string `json:"conversation"`
			ExtendedTextMessage *struct {
				Text string `json:"text"`
			} `json:"extendedTextMessage"`
		} `json:"message"`
	} `json:"data"`
}

// IncomingMessage is the normalized form the bot service works with
type IncomingMessage struct {
	FromMe      bool
	Phone       string // sender phone, digits only
	Text        string
	IsGroup     bool
	GroupJID    string // set for group messages
	Participant string // raw participant JID for group messages
	ReplyTo     string // JID or phone the reply should go to
}

// Normalize extracts the sender, text and conversation target from the
// raw payload. Direct chats carry the phone in the remote JID; group
// chats carry it in the participant JID.
func (p *WebhookPayload) Normalize() IncomingMessage {
	msg := IncomingMessage{FromMe: p.Data.Key.FromMe}

	msg.Text = p.Data.Message.Conversation
	if msg.Text == "" && p.Data.Message.ExtendedTextMessage != nil {
		msg.Text = p.Data.Message.ExtendedTextMessage.Text
	}
	msg.Text = strings.TrimSpace(msg.Text)

	jid := p.Data.Key.RemoteJid
	if strings.HasSuffix(jid, "@g.us") {
		msg.IsGroup = true
		msg.GroupJID = jid
		msg.Participant = p.Data.Key.Participant
		msg.Phone = stripJID(p.Data.Key.Participant)
		msg.ReplyTo = jid
	} else {
		msg.Phone = stripJID(jid)
		msg.ReplyTo = msg.Phone
	}

	return msg
}

// stripJID reduces a WhatsApp JID to its bare phone digits, dropping the
// server suffix and any device part ("5583999990000:12@s.whatsapp.net")
func stripJID(jid string) string {
	if i := strings.Index(jid, "@"); i >= 0 {
		jid = jid[:i]
	}
	if i := strings.Index(jid, ":"); i >= 0 {
		jid = jid[:i]
	}
	return jid
}

// TestRequest is the body of the classifier echo endpoint
type TestRequest struct {
	Numero string `json:"numero"`
	Texto  string `json:"texto"`
}
