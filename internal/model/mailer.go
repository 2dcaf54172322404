package model

import "context"

// Mailer dispatches account emails through an external delivery
// collaborator. Implementations must not retry; failures surface to the
// caller as-is.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}
