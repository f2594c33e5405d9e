package mailer

import (
	"context"
	"fmt"

	"github.com/mailersend/mailersend-go"
)

// MailerSend delivers login codes through the MailerSend API.
type MailerSend struct {
	client    *mailersend.Mailersend
	fromEmail string
	fromName  string
}

func NewMailerSend(apiKey, fromEmail, fromName string) *MailerSend {
	return &MailerSend{
		client:    mailersend.NewMailersend(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *MailerSend) SendLoginCode(ctx context.Context, toEmail, toName, code string) error {
	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: m.fromName, Email: m.fromEmail})
	message.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	message.SetSubject("Your sign-in code")
	message.SetText(fmt.Sprintf("Hi %s,\n\nYour sign-in code is %s. It expires in a few minutes.\n", toName, code))
	message.SetHTML(fmt.Sprintf("<p>Hi %s,</p><p>Your sign-in code is <strong>%s</strong>. It expires in a few minutes.</p>", toName, code))
	_, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailer: send login code: %w", err)
	}
	return nil
}
