package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// PauseRepository stores the append-only pause history of tickets.
// Records are closed by setting resumed_at, never deleted; a partial unique
// index on (ticket_id) WHERE resumed_at IS NULL enforces the single active
// pause invariant at the storage layer. PauseTicket and ResumeTicket commit
// the ticket flags and the ledger row in one transaction, so a failed write
// can never leave the two tables disagreeing.
type PauseRepository interface {
	// PauseTicket flips the ticket's pause fields and inserts the ledger
	// record atomically. False means the precondition (unpaused, not
	// closed) no longer held; nothing is written in that case.
	PauseTicket(ctx context.Context, record *domain.PauseRecord) (bool, error)
	// ResumeTicket clears the pause fields, accumulates pausedMinutes,
	// extends due_at by the same amount and closes the active ledger
	// record, all atomically. False means no active pause existed.
	ResumeTicket(ctx context.Context, ticketID string, pausedMinutes int, resumedAt time.Time, resumedBy string, resumeNotes *string) (bool, error)
	GetActive(ctx context.Context, ticketID string) (*domain.PauseRecord, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.PauseRecord, error)
}

type pauseRepository struct {
	pool *pgxpool.Pool
}

// NewPauseRepository instantiates repository.
func NewPauseRepository(pool *pgxpool.Pool) PauseRepository {
	return &pauseRepository{pool: pool}
}

func (r *pauseRepository) PauseTicket(ctx context.Context, record *domain.PauseRecord) (applied bool, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const markQuery = `
        UPDATE tickets
        SET is_paused=TRUE, sla_paused_at=$1, pause_count=pause_count+1, updated_at=NOW()
        WHERE id=$2 AND is_paused=FALSE AND status NOT IN ($3,$4)`
	cmd, err := tx.Exec(ctx, markQuery, record.PausedAt, record.TicketID,
		domain.TicketStatusDone, domain.TicketStatusCancelled)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return false, nil
	}

	const insertQuery = `
        INSERT INTO pause_records (ticket_id, paused_at, paused_by, reason_category, reason, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	if err = tx.QueryRow(ctx, insertQuery,
		record.TicketID,
		record.PausedAt,
		record.PausedBy,
		record.ReasonCategory,
		record.Reason,
		record.Notes,
	).Scan(&record.ID); err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *pauseRepository) ResumeTicket(ctx context.Context, ticketID string, pausedMinutes int, resumedAt time.Time, resumedBy string, resumeNotes *string) (applied bool, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// The due_at extension keeps the time available to resolve the ticket
	// conserved across any number of pause cycles.
	const markQuery = `
        UPDATE tickets
        SET is_paused=FALSE,
            sla_paused_at=NULL,
            sla_paused_minutes=sla_paused_minutes+$1,
            due_at=due_at + make_interval(mins => $1),
            updated_at=NOW()
        WHERE id=$2 AND is_paused=TRUE`
	cmd, err := tx.Exec(ctx, markQuery, pausedMinutes, ticketID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return false, nil
	}

	const closeQuery = `
        UPDATE pause_records
        SET resumed_at=$1, resumed_by=$2, resume_notes=$3
        WHERE ticket_id=$4 AND resumed_at IS NULL`
	cmd, err = tx.Exec(ctx, closeQuery, resumedAt, resumedBy, resumeNotes, ticketID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		// Flag set but no ledger row: roll the whole resume back rather
		// than committing a half-resumed ticket.
		_ = tx.Rollback(ctx)
		return false, nil
	}

	if err = tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// GetActive returns the single unresumed record for a ticket, or nil when
// the ticket is not paused.
func (r *pauseRepository) GetActive(ctx context.Context, ticketID string) (*domain.PauseRecord, error) {
	const query = `
        SELECT id, ticket_id, paused_at, paused_by, reason_category, reason, notes,
               resumed_at, resumed_by, resume_notes
        FROM pause_records
        WHERE ticket_id=$1 AND resumed_at IS NULL`
	record, err := r.scanOne(r.pool.QueryRow(ctx, query, ticketID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return record, err
}

func (r *pauseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.PauseRecord, error) {
	const query = `
        SELECT id, ticket_id, paused_at, paused_by, reason_category, reason, notes,
               resumed_at, resumed_by, resume_notes
        FROM pause_records
        WHERE ticket_id=$1
        ORDER BY paused_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PauseRecord
	for rows.Next() {
		var record domain.PauseRecord
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.PausedAt,
			&record.PausedBy,
			&record.ReasonCategory,
			&record.Reason,
			&record.Notes,
			&record.ResumedAt,
			&record.ResumedBy,
			&record.ResumeNotes,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (r *pauseRepository) scanOne(row pgx.Row) (*domain.PauseRecord, error) {
	var record domain.PauseRecord
	if err := row.Scan(
		&record.ID,
		&record.TicketID,
		&record.PausedAt,
		&record.PausedBy,
		&record.ReasonCategory,
		&record.Reason,
		&record.Notes,
		&record.ResumedAt,
		&record.ResumedBy,
		&record.ResumeNotes,
	); err != nil {
		return nil, err
	}
	return &record, nil
}
