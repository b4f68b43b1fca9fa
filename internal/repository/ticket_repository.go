package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// TicketRepository encapsulates the SLA engine's view of ticket persistence.
// Every write is a conditional statement so a sweep racing a manual
// pause/resume loses cleanly instead of clobbering the other's update; the
// boolean result reports whether the precondition still held. The pause
// field writes live on PauseRepository, transactional with the ledger.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListOpenWithDeadline(ctx context.Context) ([]domain.Ticket, error)
	UpdateSLAStatus(ctx context.Context, id string, next, expectedPrev domain.SLAStatus) (bool, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, branch_id, assignee_id, status, sla_status, sla_mode, sla_hours,
               created_at, due_at, is_paused, sla_paused_at, sla_paused_minutes, pause_count`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.BranchID,
		&ticket.AssigneeID,
		&ticket.Status,
		&ticket.SLAStatus,
		&ticket.SLAMode,
		&ticket.SLAHours,
		&ticket.CreatedAt,
		&ticket.DueAt,
		&ticket.IsPaused,
		&ticket.SLAPausedAt,
		&ticket.SLAPausedMinutes,
		&ticket.PauseCount,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListOpenWithDeadline returns every ticket the sweep evaluates: business
// status still open/assigned/working and a due date present.
func (r *ticketRepository) ListOpenWithDeadline(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets
        WHERE status IN ($1,$2,$3) AND due_at IS NOT NULL
        ORDER BY due_at ASC`
	rows, err := r.pool.Query(ctx, query,
		domain.TicketStatusOpen, domain.TicketStatusAssigned, domain.TicketStatusWorking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// UpdateSLAStatus persists a reclassification only if the stored value is
// still the one the caller computed the transition from.
func (r *ticketRepository) UpdateSLAStatus(ctx context.Context, id string, next, expectedPrev domain.SLAStatus) (bool, error) {
	const query = `UPDATE tickets SET sla_status=$1, updated_at=NOW() WHERE id=$2 AND sla_status=$3`
	cmd, err := r.pool.Exec(ctx, query, next, id, expectedPrev)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.BranchID,
			&ticket.AssigneeID,
			&ticket.Status,
			&ticket.SLAStatus,
			&ticket.SLAMode,
			&ticket.SLAHours,
			&ticket.CreatedAt,
			&ticket.DueAt,
			&ticket.IsPaused,
			&ticket.SLAPausedAt,
			&ticket.SLAPausedMinutes,
			&ticket.PauseCount,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
