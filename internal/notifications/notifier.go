package notifications

import (
	"context"
	"errors"

	"github.com/yatrafest/reghub/internal/domain/registration"
)

// Result distinguishes a real send from the valid "email service disabled"
// short-circuit.
type Result struct {
	Delivered bool
	Disabled  bool
}

// Notifier sends the registration-confirmation email for a stored record.
// Implementations must be safe to call from a detached goroutine.
type Notifier interface {
	SendRegistrationConfirmation(ctx context.Context, reg registration.Registration) (Result, error)
}

// ErrRejected means the function endpoint answered with a non-2xx status.
var ErrRejected = errors.New("notification rejected by mail function")
