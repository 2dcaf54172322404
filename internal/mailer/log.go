// Package mailer holds delivery collaborators for account emails.
package mailer

import (
	"context"

	"github.com/dtroode/notekeeper-server/internal/logger"
)

// Log writes outgoing emails to the application log instead of sending
// them. Used in development and as the default until an SMTP delivery
// collaborator is configured.
type Log struct {
	logger *logger.Logger
}

// NewLog creates a log-backed mailer.
func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

// SendPasswordReset logs the recovery link for the given address.
func (m *Log) SendPasswordReset(_ context.Context, email, link string) error {
	m.logger.Info("password reset email",
		"email", email,
		"link", link)
	return nil
}
