package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// CalendarRepository reads branch working-hours rows and holiday dates.
// Pure lookups; the calendar tables are configured by the back office.
type CalendarRepository interface {
	ListWorkingHours(ctx context.Context, branchID string) ([]domain.WorkingHoursEntry, error)
	ListHolidays(ctx context.Context, branchID string, from, to time.Time) ([]domain.Holiday, error)
}

type calendarRepository struct {
	pool *pgxpool.Pool
}

// NewCalendarRepository instantiates repository.
func NewCalendarRepository(pool *pgxpool.Pool) CalendarRepository {
	return &calendarRepository{pool: pool}
}

func (r *calendarRepository) ListWorkingHours(ctx context.Context, branchID string) ([]domain.WorkingHoursEntry, error) {
	const query = `
        SELECT branch_id, weekday, open_minute, close_minute, is_closed
        FROM branch_working_hours
        WHERE branch_id=$1
        ORDER BY weekday ASC`
	rows, err := r.pool.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkingHoursEntry
	for rows.Next() {
		var entry domain.WorkingHoursEntry
		var weekday int
		if err := rows.Scan(&entry.BranchID, &weekday, &entry.Open, &entry.Close, &entry.IsClosed); err != nil {
			return nil, err
		}
		entry.Weekday = time.Weekday(weekday)
		result = append(result, entry)
	}
	return result, rows.Err()
}

// ListHolidays returns holidays within [from, to] scoped to the branch plus
// global rows (branch_id null applies to every branch).
func (r *calendarRepository) ListHolidays(ctx context.Context, branchID string, from, to time.Time) ([]domain.Holiday, error) {
	const query = `
        SELECT id, branch_id, holiday_date, name
        FROM holidays
        WHERE (branch_id=$1 OR branch_id IS NULL)
          AND holiday_date >= $2::date AND holiday_date <= $3::date
        ORDER BY holiday_date ASC`
	rows, err := r.pool.Query(ctx, query, branchID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Holiday
	for rows.Next() {
		var holiday domain.Holiday
		if err := rows.Scan(&holiday.ID, &holiday.BranchID, &holiday.Date, &holiday.Name); err != nil {
			return nil, err
		}
		result = append(result, holiday)
	}
	return result, rows.Err()
}
