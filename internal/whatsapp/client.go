package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Client talks to an Evolution-API-compatible WhatsApp gateway
type Client struct {
	baseURL    string
	apiKey     string
	instance   string
	httpClient *http.Client
}

// NewClient creates a new gateway client
func NewClient(baseURL, apiKey, instance string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		instance: instance,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s%s/%s", c.baseURL, path, c.instance)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	return c.httpClient.Do(req)
}

func drainError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, body)
}

// SendText sends a plain text message to a phone number or group JID
func (c *Client) SendText(ctx context.Context, number, text string) error {
	resp, err := c.request(ctx, http.MethodPost, "/message/sendText", nil, map[string]string{
		"number": number,
		"text":   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return drainError(resp)
	}

	return nil
}

type createGroupResponse struct {
	ID       string `json:"id"`
	GroupJid string `json:"groupJid"`
}

// CreateGroup creates a WhatsApp group and returns its JID. When creation
// with participants fails it retries once with an empty participant list,
// degrading to a shell group the driver can invite people into.
func (c *Client) CreateGroup(ctx context.Context, subject string, participants []string) (string, error) {
	jid, err := c.createGroup(ctx, subject, participants)
	if err == nil {
		return jid, nil
	}
	if len(participants) == 0 {
		return "", err
	}

	log.Printf("group creation with %d participants failed, retrying empty: %v", len(participants), err)
	return c.createGroup(ctx, subject, []string{})
}

func (c *Client) createGroup(ctx context.Context, subject string, participants []string) (string, error) {
	if participants == nil {
		participants = []string{}
	}

	resp, err := c.request(ctx, http.MethodPost, "/group/create", nil, map[string]interface{}{
		"subject":      subject,
		"participants": participants,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create group: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", drainError(resp)
	}

	var out createGroupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode group response: %w", err)
	}
	if out.ID != "" {
		return out.ID, nil
	}
	if out.GroupJid != "" {
		return out.GroupJid, nil
	}

	return "", fmt.Errorf("group response carried no id")
}

type inviteResponse struct {
	InviteURL  string `json:"inviteUrl"`
	InviteCode string `json:"inviteCode"`
	Code       string `json:"code"`
}

// GetInviteLink fetches the group's invite link, normalizing a bare
// invite code into a full URL
func (c *Client) GetInviteLink(ctx context.Context, groupJID string) (string, error) {
	query := url.Values{"groupJid": {groupJID}}
	resp, err := c.request(ctx, http.MethodGet, "/group/inviteCode", query, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch invite link: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", drainError(resp)
	}

	var out inviteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode invite response: %w", err)
	}

	if out.InviteURL != "" {
		return out.InviteURL, nil
	}
	code := out.InviteCode
	if code == "" {
		code = out.Code
	}
	if code == "" {
		return "", fmt.Errorf("invite response carried no code")
	}

	return "https://chat.whatsapp.com/" + code, nil
}

type participant struct {
	ID string `json:"id"`
}

// GetParticipants lists the participant JIDs of a group. It tolerates
// both a bare array and a wrapped object and never fails: any error
// yields an empty list.
func (c *Client) GetParticipants(ctx context.Context, groupJID string) []string {
	query := url.Values{"groupJid": {groupJID}}
	resp, err := c.request(ctx, http.MethodGet, "/group/participants", query, nil)
	if err != nil {
		log.Printf("participant fetch failed for %s: %v", groupJID, err)
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("participant fetch for %s returned status %d", groupJID, resp.StatusCode)
		return []string{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []string{}
	}

	var wrapped struct {
		Participants []participant `json:"participants"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Participants) > 0 {
		return participantIDs(wrapped.Participants)
	}

	var bare []participant
	if err := json.Unmarshal(body, &bare); err == nil {
		return participantIDs(bare)
	}

	return []string{}
}

func participantIDs(list []participant) []string {
	ids := make([]string, 0, len(list))
	for _, p := range list {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// RenewInviteLink revokes the current invite link and fetches the new
// one. Revocation failures are logged but do not abort the refetch.
func (c *Client) RenewInviteLink(ctx context.Context, groupJID string) (string, error) {
	query := url.Values{"groupJid": {groupJID}}
	resp, err := c.request(ctx, http.MethodPut, "/group/revokeInviteCode", query, nil)
	if err != nil {
		log.Printf("invite revoke failed for %s: %v", groupJID, err)
	} else {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			log.Printf("invite revoke for %s returned status %d", groupJID, resp.StatusCode)
		}
		resp.Body.Close()
	}

	return c.GetInviteLink(ctx, groupJID)
}
