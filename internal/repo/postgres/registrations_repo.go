package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yatrafest/reghub/internal/domain/registration"
	"github.com/yatrafest/reghub/internal/observability"
	"github.com/yatrafest/reghub/internal/utils"
)

// RegistrationsRepo is insert-only from the submission pipeline's point of
// view. The unique index on email is the single arbiter of the
// one-record-per-email invariant; client-side checks are advisory.
type RegistrationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *RegistrationsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create performs exactly one insert attempt. Error taxonomy:
// unique violation -> ErrDuplicateEmail, insufficient privilege ->
// ErrAuthorizationDenied, anything else passes through for the handler to
// classify as transient.
func (repo *RegistrationsRepo) Create(ctx context.Context, reg registration.Registration) (stored registration.Registration, err error) {
	err = repo.observe("registrations.create", func() error {
		return repo.pool.QueryRow(ctx, `
		INSERT INTO registrations (id, name, email, phone, college, ticket_type, price, is_rit_student, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at
	`, reg.ID, reg.Name, reg.Email, reg.Phone, reg.College, reg.TicketType, reg.Price, reg.IsRITStudent, reg.CreatedAt).
			Scan(&reg.ID, &reg.CreatedAt)
	})

	if err != nil {
		if IsUniqueViolation(err) {
			err = registration.ErrDuplicateEmail
			return
		}
		if IsInsufficientPrivilege(err) {
			err = registration.ErrAuthorizationDenied
			return
		}
		return
	}

	stored = reg
	return
}

func (repo *RegistrationsRepo) GetByID(ctx context.Context, id string) (found registration.Registration, err error) {
	var r registration.Registration

	err = repo.observe("registrations.get_by_id", func() error {
		return repo.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, college, ticket_type, price, is_rit_student, created_at
		FROM registrations
		WHERE id = $1
		`, id).Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.College, &r.TicketType, &r.Price, &r.IsRITStudent, &r.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = registration.ErrNotFound
		}
		return
	}

	found = r
	return
}

func (repo *RegistrationsRepo) Count(ctx context.Context) (int, error) {
	op := "registrations.count"
	var total int
	err := repo.observe(op, func() error {
		return repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&total)
	})
	return total, err
}

func (repo *RegistrationsRepo) CountByTicketType(ctx context.Context) (map[string]int, error) {
	op := "registrations.count_by_ticket_type"

	var rows pgx.Rows
	err := repo.observe(op, func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx, `
		SELECT ticket_type, COUNT(*)
		FROM registrations
		GROUP BY ticket_type
		`)
		return qerr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)

	for rows.Next() {
		var ticket string
		var n int

		if scanErr := rows.Scan(&ticket, &n); scanErr != nil {
			return nil, scanErr
		}
		out[ticket] = n
	}

	return out, rows.Err()
}

// ListCursor pages registrations with a keyset cursor ordered by
// (created_at, id).
func (repo *RegistrationsRepo) ListCursor(
	ctx context.Context,
	limit int,
	afterCreatedAt time.Time,
	afterID string,
) (items []registration.Registration, nextCursor *string, hasMore bool, err error) {
	op := "registrations.list_cursor"

	q := `
		SELECT id, name, email, phone, college, ticket_type, price, is_rit_student, created_at
		FROM registrations
		WHERE (created_at, id) > ($1, $2)
		ORDER BY created_at ASC, id ASC
		LIMIT $3
	`
	limitPlusOne := limit + 1

	var rows pgx.Rows
	err = repo.observe(op, func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx, q, afterCreatedAt, afterID, limitPlusOne)
		return qerr
	})
	if err != nil {
		return nil, nil, false, err
	}
	defer rows.Close()

	out := make([]registration.Registration, 0, limit)

	for rows.Next() {
		var r registration.Registration
		if scanErr := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.College, &r.TicketType, &r.Price, &r.IsRITStudent, &r.CreatedAt); scanErr != nil {
			return nil, nil, false, scanErr
		}
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, nil, false, rows.Err()
	}

	if len(out) > limit {
		hasMore = true
		out = out[:limit]
		last := out[len(out)-1]
		cur, encErr := utils.EncodeRegistrationCursor(last.CreatedAt, last.ID)
		if encErr != nil {
			return nil, nil, false, encErr
		}
		nextCursor = &cur
	}

	return out, nextCursor, hasMore, nil
}

// ListAll streams every registration in insertion order, for the CSV
// export. Kept separate from the cursor path so the export never truncates.
func (repo *RegistrationsRepo) ListAll(ctx context.Context) (regs []registration.Registration, err error) {
	var rows pgx.Rows

	err = repo.observe("registrations.list_all", func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx, `
		SELECT id, name, email, phone, college, ticket_type, price, is_rit_student, created_at
		FROM registrations
		ORDER BY created_at ASC, id ASC
		`)
		return qerr
	})

	if err != nil {
		return
	}
	defer rows.Close()

	regs = make([]registration.Registration, 0)

	for rows.Next() {
		var r registration.Registration

		e := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.College, &r.TicketType, &r.Price, &r.IsRITStudent, &r.CreatedAt)

		if e != nil {
			err = e
			return
		}
		regs = append(regs, r)
	}

	err = rows.Err()
	return
}
