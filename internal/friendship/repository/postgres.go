package repository

import (
	"context"
	"database/sql"
	"errors"

	"reactiquiz/backend/internal/friendship/domain"
)

const friendshipColumns = `id, requester_id, addressee_id, status, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a friendship repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the friendship request. The friendship must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, f *domain.Friendship) error {
	const q = `
		INSERT INTO friendships (id, requester_id, addressee_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, q,
		f.ID, f.RequesterID, f.AddresseeID, string(f.Status), f.CreatedAt, f.UpdatedAt)
	return err
}

// GetByID returns the friendship for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Friendship, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+friendshipColumns+` FROM friendships WHERE id = $1`, id)
	return scanFriendship(row)
}

// GetByPair returns the friendship between two users in either direction, or nil.
func (r *PostgresRepository) GetByPair(ctx context.Context, userA, userB string) (*domain.Friendship, error) {
	const q = `SELECT ` + friendshipColumns + ` FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)`
	row := r.db.QueryRowContext(ctx, q, userA, userB)
	return scanFriendship(row)
}

// UpdateStatus sets the friendship status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	const q = `UPDATE friendships SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, string(status))
	return err
}

// Delete removes the friendship row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	return err
}

// ListByUser returns friendships involving the user with the given status, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, status domain.Status) ([]*domain.Friendship, error) {
	const q = `SELECT ` + friendshipColumns + ` FROM friendships
		WHERE (requester_id = $1 OR addressee_id = $1) AND status = $2
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Friendship
	for rows.Next() {
		var (
			f      domain.Friendship
			status string
		)
		if err := rows.Scan(&f.ID, &f.RequesterID, &f.AddresseeID, &status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.Status = domain.Status(status)
		out = append(out, &f)
	}
	return out, rows.Err()
}

func scanFriendship(row *sql.Row) (*domain.Friendship, error) {
	var (
		f      domain.Friendship
		status string
	)
	err := row.Scan(&f.ID, &f.RequesterID, &f.AddresseeID, &status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	f.Status = domain.Status(status)
	return &f, nil
}
