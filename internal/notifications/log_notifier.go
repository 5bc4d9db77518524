package notifications

import (
	"context"
	"log/slog"

	"github.com/yatrafest/reghub/internal/domain/registration"
)

// LogNotifier is the "email service disabled" branch: it logs the would-be
// email and reports a success-shaped disabled result without touching the
// network.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendRegistrationConfirmation(ctx context.Context, reg registration.Registration) (Result, error) {
	n.log.InfoContext(ctx, "mail function not configured, confirmation skipped",
		"registration_id", reg.ID,
		"email", reg.Email,
		"ticket_type", reg.TicketType,
		"price", reg.Price,
	)
	return Result{Disabled: true}, nil
}
