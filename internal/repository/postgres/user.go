package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// CreateIfAbsent registers a user unless the email is already taken.
// Duplicate registration is a no-op, not an error.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	query := `
		INSERT INTO users (id, email, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`

	result, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, name, role, created_at FROM users WHERE email = $1`

	var user domain.User
	err := r.q.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UpdateRoleByID sets the role of the user with the given record id.
func (r *UserRepository) UpdateRoleByID(ctx context.Context, id string, role domain.Role) (int64, error) {
	query := `UPDATE users SET role = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, role, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// UpdateRoleByEmail sets the role of the user keyed by email.
func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email string, role domain.Role) (int64, error) {
	query := `UPDATE users SET role = $1 WHERE email = $2`

	result, err := r.q.ExecContext(ctx, query, role, email)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// likeEscaper neutralizes pattern metacharacters so a fragment is
// matched as a literal substring inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByEmail returns users whose email contains the fragment,
// case-insensitively. Only directory fields are selected; nothing
// sensitive leaves this query.
func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string, limit int) ([]*domain.User, error) {
	query := `
		SELECT id, email, name, role, created_at
		FROM users
		WHERE email ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, likeEscaper.Replace(fragment), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.Role,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
