package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Message is a fully rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Mailgun sends mail through the Mailgun HTTP API.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender}
}

// Send sends an email via Mailgun. HTML is optional.
func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	message := m.client.NewMessage(m.sender, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.client.Send(c, message)
	return err
}

var _ Sender = (*Mailgun)(nil)
