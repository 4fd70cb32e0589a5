// Package notify builds and sends account emails (welcome and password
// reset). Delivery is fire-and-forget from the caller's point of view:
// callers log a failed send and carry on.
package notify

import (
	"context"

	"github.com/dmitrijs2005/gpatracker/internal/logging"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Dispatcher delivers a Message.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// LogDispatcher only logs messages. It is used when no SMTP server is
// configured, e.g. in local development.
type LogDispatcher struct {
	logger logging.Logger
}

func NewLogDispatcher(l logging.Logger) *LogDispatcher {
	return &LogDispatcher{logger: l.With("module", "notify")}
}

func (d *LogDispatcher) Send(ctx context.Context, msg Message) error {
	d.logger.Info(ctx, "Email not sent, SMTP disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}
