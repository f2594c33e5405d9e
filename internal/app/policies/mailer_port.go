package policies

import "context"

// Mailer delivers transactional mail. Failures are surfaced to the caller;
// nothing is queued or retried here.
type Mailer interface {
	SendLoginCode(ctx context.Context, toEmail, toName, code string) error
}
