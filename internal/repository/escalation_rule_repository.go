package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// EscalationRuleRepository reads the read-only escalation configuration.
type EscalationRuleRepository interface {
	// GetActiveByThreshold returns the active rule for an exact threshold
	// percent, or nil when no rule is configured (tier disabled).
	GetActiveByThreshold(ctx context.Context, thresholdPercent int) (*domain.EscalationRule, error)
	ListActive(ctx context.Context) ([]domain.EscalationRule, error)
}

type escalationRuleRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRuleRepository instantiates repository.
func NewEscalationRuleRepository(pool *pgxpool.Pool) EscalationRuleRepository {
	return &escalationRuleRepository{pool: pool}
}

func (r *escalationRuleRepository) GetActiveByThreshold(ctx context.Context, thresholdPercent int) (*domain.EscalationRule, error) {
	const query = `
        SELECT id, threshold_percent, notify_roles, is_active
        FROM escalation_rules
        WHERE threshold_percent=$1 AND is_active=TRUE`
	var rule domain.EscalationRule
	err := r.pool.QueryRow(ctx, query, thresholdPercent).Scan(
		&rule.ID,
		&rule.ThresholdPercent,
		&rule.NotifyRoles,
		&rule.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *escalationRuleRepository) ListActive(ctx context.Context) ([]domain.EscalationRule, error) {
	const query = `
        SELECT id, threshold_percent, notify_roles, is_active
        FROM escalation_rules
        WHERE is_active=TRUE
        ORDER BY threshold_percent ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EscalationRule
	for rows.Next() {
		var rule domain.EscalationRule
		if err := rows.Scan(&rule.ID, &rule.ThresholdPercent, &rule.NotifyRoles, &rule.IsActive); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}
