package mailer

import (
	"context"
	"log/slog"
)

// LogMailer prints the code instead of sending mail. Dev only.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendLoginCode(ctx context.Context, toEmail, toName, code string) error {
	if m.Logger != nil {
		m.Logger.Info("login code (mail delivery disabled)", "to", toEmail, "code", code)
	}
	return nil
}
