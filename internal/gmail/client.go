package gmail

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"sort"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail Users service.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client on top of an OAuth2-authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// buildQuery assembles the Gmail search query for invoice mails from the
// given sender inside the trailing window.
func buildQuery(sender string, sinceDays int, now time.Time) string {
	after := now.AddDate(0, 0, -sinceDays).Format("2006/01/02")
	return fmt.Sprintf("from:%s after:%s has:attachment", sender, after)
}

// senderMatches compares a From header against the configured sender address,
// case-insensitively, tolerating display names ("Iskon <e-racun@iskon.hr>").
func senderMatches(fromHeader, sender string) bool {
	addr, err := mail.ParseAddress(fromHeader)
	if err != nil {
		// Some senders emit a bare address without angle brackets.
		return strings.EqualFold(strings.TrimSpace(fromHeader), sender)
	}
	return strings.EqualFold(addr.Address, sender)
}

// FindCandidates searches for messages from sender received within the last
// sinceDays days and returns them ordered by received timestamp ascending, so
// an interrupted run leaves the processed-set consistent with chronological
// order. An empty result is not an error.
func (c *Client) FindCandidates(ctx context.Context, sender string, sinceDays int) ([]InvoiceCandidate, error) {
	query := buildQuery(sender, sinceDays, time.Now())

	var ids []string
	pageToken := ""
	for {
		req := c.svc.Messages.List("me").Q(query).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("message search failed: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	candidates := make([]InvoiceCandidate, 0, len(ids))
	for _, id := range ids {
		msg, err := c.svc.Messages.Get("me", id).
			Format("metadata").
			MetadataHeaders("From", "Subject").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", id, err)
		}

		from := HeaderValue(msg, "From")
		// The query filter is advisory; the From header is authoritative.
		if !senderMatches(from, sender) {
			continue
		}

		candidates = append(candidates, InvoiceCandidate{
			MessageID: msg.Id,
			From:      from,
			Subject:   HeaderValue(msg, "Subject"),
			Received:  time.UnixMilli(msg.InternalDate),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Received.Before(candidates[j].Received)
	})

	return candidates, nil
}

// HeaderValue returns the value of the named header from a message, or "".
func HeaderValue(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// Profile returns the authenticated account's own email address.
func (c *Client) Profile(ctx context.Context) (string, error) {
	profile, err := c.svc.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// SendSelf sends a plain-text email from the account to itself. Used for the
// per-run summary notification.
func (c *Client) SendSelf(ctx context.Context, subject, body string) error {
	addr, err := c.Profile(ctx)
	if err != nil {
		return err
	}
	return c.send(ctx, addr, subject, body)
}

// send builds an RFC 2822 message and sends it through the Gmail API.
func (c *Client) send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient is required")
	}
	if subject == "" {
		return fmt.Errorf("subject is required")
	}

	var b strings.Builder
	b.WriteString("To: ")
	b.WriteString(to)
	b.WriteString("\r\n")
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(subject))
	b.WriteString("\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	msg := &gmail.Message{Raw: encodeWebSafe(b.String())}
	if _, err := c.svc.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
