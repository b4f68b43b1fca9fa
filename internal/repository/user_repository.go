package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// UserRepository is the engine's read-only window into the role directory.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListActiveWithRole(ctx context.Context, role string) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, name, role, is_active FROM users WHERE id=$1`
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Role, &user.IsActive); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListActiveWithRole(ctx context.Context, role string) ([]domain.User, error) {
	const query = `SELECT id, name, role, is_active FROM users WHERE role=$1 AND is_active=TRUE`
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Role, &user.IsActive); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
