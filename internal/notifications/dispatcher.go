package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yatrafest/reghub/internal/domain/registration"
)

// DeliveryLedger records dispatch outcomes for later inspection. All calls
// are best-effort; errors are logged and swallowed.
type DeliveryLedger interface {
	Start(ctx context.Context, registrationID, recipient string) error
	MarkSent(ctx context.Context, registrationID string) error
	MarkDisabled(ctx context.Context, registrationID string) error
	MarkFailed(ctx context.Context, registrationID string, errMsg string) error
}

// MailMetrics is the slice of observability.Prom the dispatcher needs.
type MailMetrics interface {
	ObserveMailDispatch(result string, elapsed time.Duration)
	MailDispatchStarted()
	MailDispatchFinished()
}

// Dispatcher runs confirmation sends as detached tasks. Registration
// success must never be gated on email delivery: the caller returns to the
// user immediately, and every outcome here is observed only by the logger,
// the metrics and the ledger.
type Dispatcher struct {
	notifier Notifier
	ledger   DeliveryLedger
	metrics  MailMetrics
	log      *slog.Logger

	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(notifier Notifier, ledger DeliveryLedger, metrics MailMetrics, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		ledger:   ledger,
		metrics:  metrics,
		log:      log,
		timeout:  30 * time.Second,
	}
}

// Dispatch fires the confirmation send and returns immediately. The task
// carries its own context: it must survive the originating HTTP request
// being abandoned.
func (d *Dispatcher) Dispatch(reg registration.Registration) {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()
		defer func() {
			// a panicking send must not take the process down
			if r := recover(); r != nil {
				d.log.Error("confirmation dispatch panicked", "registration_id", reg.ID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		d.send(ctx, reg)
	}()
}

// Wait blocks until in-flight dispatches finish; used on shutdown so a
// just-accepted registration still gets its send attempt.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) send(ctx context.Context, reg registration.Registration) {
	if d.metrics != nil {
		d.metrics.MailDispatchStarted()
		defer d.metrics.MailDispatchFinished()
	}

	start := time.Now()

	if d.ledger != nil {
		if err := d.ledger.Start(ctx, reg.ID, reg.Email); err != nil {
			d.log.Warn("delivery ledger start failed", "registration_id", reg.ID, "err", err)
		}
	}

	res, err := d.notifier.SendRegistrationConfirmation(ctx, reg)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		d.log.Error("confirmation email failed",
			"registration_id", reg.ID,
			"email", reg.Email,
			"err", err,
		)
		d.record("failed", elapsed)
		if d.ledger != nil {
			if lerr := d.ledger.MarkFailed(ctx, reg.ID, err.Error()); lerr != nil {
				d.log.Warn("delivery ledger update failed", "registration_id", reg.ID, "err", lerr)
			}
		}

	case res.Disabled:
		d.log.Info("confirmation email skipped, service disabled",
			"registration_id", reg.ID,
			"email", reg.Email,
		)
		d.record("disabled", elapsed)
		if d.ledger != nil {
			if lerr := d.ledger.MarkDisabled(ctx, reg.ID); lerr != nil {
				d.log.Warn("delivery ledger update failed", "registration_id", reg.ID, "err", lerr)
			}
		}

	default:
		d.log.Info("confirmation email sent",
			"registration_id", reg.ID,
			"email", reg.Email,
			"elapsed_ms", elapsed.Milliseconds(),
		)
		d.record("sent", elapsed)
		if d.ledger != nil {
			if lerr := d.ledger.MarkSent(ctx, reg.ID); lerr != nil {
				d.log.Warn("delivery ledger update failed", "registration_id", reg.ID, "err", lerr)
			}
		}
	}
}

func (d *Dispatcher) record(result string, elapsed time.Duration) {
	if d.metrics != nil {
		d.metrics.ObserveMailDispatch(result, elapsed)
	}
}
