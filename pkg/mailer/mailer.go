package mailer

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/keighl/postmark"
	"github.com/stepup/stepup-backend/pkg/logger"
)

// Message is a single outbound email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// PostmarkMailer sends mail through the Postmark API.
type PostmarkMailer struct {
	client *postmark.Client
	sender string
}

func NewPostmarkMailer(serverToken, sender string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		sender: sender,
	}
}

// Send ignores ctx; the postmark client has no context support.
func (m *PostmarkMailer) Send(_ context.Context, msg Message) error {
	textBody := msg.TextBody
	if textBody == "" {
		textBody = textFromHTML(msg.HTMLBody)
	}

	resp, err := m.client.SendEmail(postmark.Email{
		From:     m.sender,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTMLBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":         msg.To,
		"subject":    msg.Subject,
		"message_id": resp.MessageID,
	})
	return nil
}

var (
	blockTag = regexp.MustCompile(`(?i)</p>|<br\s*/?>`)
	anyTag   = regexp.MustCompile(`<[^>]*>`)
)

// textFromHTML flattens simple markup into a plain-text body.
func textFromHTML(body string) string {
	text := blockTag.ReplaceAllString(body, "\n")
	text = anyTag.ReplaceAllString(text, "")
	return strings.TrimSpace(html.UnescapeString(text))
}

// MockMailer logs and records messages instead of sending them.
type MockMailer struct {
	mu   sync.Mutex
	sent []Message
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	logger.Info("Mock email recorded", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}

// Sent returns a copy of every recorded message.
func (m *MockMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// New picks Postmark when a token is configured and the mock otherwise.
func New(serverToken, sender string) Mailer {
	if serverToken == "" {
		logger.Warn("POSTMARK_API_TOKEN not set, emails will only be logged")
		return NewMockMailer()
	}
	return NewPostmarkMailer(serverToken, sender)
}
