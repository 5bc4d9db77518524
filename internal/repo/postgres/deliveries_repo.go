package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DeliveriesRepo is the observational ledger of confirmation dispatches.
// Writes here are best-effort: the dispatcher logs and ignores failures so
// bookkeeping can never gate a registration.
type DeliveriesRepo struct {
	pool *pgxpool.Pool
}

func NewDeliveriesRepo(pool *pgxpool.Pool) *DeliveriesRepo {
	return &DeliveriesRepo{pool: pool}
}

const deliveryKind = "registration.confirmation"

func (r *DeliveriesRepo) Start(ctx context.Context, registrationID, recipient string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_deliveries (kind, registration_id, recipient, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'sending', NOW(), NOW())
		ON CONFLICT (kind, registration_id) DO UPDATE
		SET status = 'sending', recipient = $3, last_error = NULL, updated_at = NOW()
	`, deliveryKind, registrationID, recipient)

	return err
}

func (r *DeliveriesRepo) MarkSent(ctx context.Context, registrationID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notification_deliveries
		SET status = 'sent',
		    sent_at = NOW(),
		    last_error = NULL,
		    updated_at = NOW()
		WHERE kind = $1 AND registration_id = $2
	`, deliveryKind, registrationID)

	return err
}

// MarkDisabled records the short-circuit branch where mail credentials are
// not configured. A valid outcome, not a failure.
func (r *DeliveriesRepo) MarkDisabled(ctx context.Context, registrationID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notification_deliveries
		SET status = 'disabled',
		    last_error = NULL,
		    updated_at = NOW()
		WHERE kind = $1 AND registration_id = $2
	`, deliveryKind, registrationID)

	return err
}

func (r *DeliveriesRepo) MarkFailed(ctx context.Context, registrationID string, errMsg string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notification_deliveries
		SET status = 'failed',
		    last_error = $3,
		    updated_at = NOW()
		WHERE kind = $1 AND registration_id = $2
	`, deliveryKind, registrationID, errMsg)

	return err
}
