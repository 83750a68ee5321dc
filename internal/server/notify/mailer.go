package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// EmailSender hands a message to some delivery mechanism.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

const verificationSubject = "Please verify your email address"

// VerificationMailer turns UserRegistered events into verification emails.
type VerificationMailer struct {
	sender          EmailSender
	from            string
	verificationURL string
	validity        time.Duration
}

// NewVerificationMailer builds a mailer. verificationURL is optional; when set
// the email links to it with the token as a query parameter.
func NewVerificationMailer(sender EmailSender, from, verificationURL string, validity time.Duration) *VerificationMailer {
	return &VerificationMailer{
		sender:          sender,
		from:            from,
		verificationURL: verificationURL,
		validity:        validity,
	}
}

func (m *VerificationMailer) Handle(ctx context.Context, event UserRegistered) error {
	if err := m.sender.Send(ctx, m.Compose(event)); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// Compose renders the verification email for event.
func (m *VerificationMailer) Compose(event UserRegistered) Message {
	var b strings.Builder

	greeting := "Hello"
	if event.Name != "" {
		greeting += " " + event.Name
	}
	b.WriteString(greeting + ",\n\n")
	b.WriteString("Thanks for signing up! Please confirm your email address to finish registration.\n\n")

	if link := m.link(event.VerificationToken); link != "" {
		b.WriteString("Open this link to verify:\n" + link + "\n\n")
	}
	b.WriteString("Verification token: " + event.VerificationToken + "\n\n")
	fmt.Fprintf(&b, "This token is valid for %s.\n\n", humanizeHours(m.validity))
	b.WriteString("Thank you.\n")

	return Message{
		From:    m.from,
		To:      event.Email,
		Subject: verificationSubject,
		Body:    b.String(),
	}
}

func (m *VerificationMailer) link(token string) string {
	if m.verificationURL == "" {
		return ""
	}
	u, err := url.Parse(m.verificationURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func humanizeHours(d time.Duration) string {
	h := int(d.Hours())
	switch {
	case h <= 0 || time.Duration(h)*time.Hour != d:
		return d.String()
	case h == 1:
		return "1 hour"
	default:
		return fmt.Sprintf("%d hours", h)
	}
}
