package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/checkin-service/internal/domain"
)

// AttendeeRepository defines read/write access to registration records.
// The check-in flow only reads; writes happen at registration time.
type AttendeeRepository interface {
	Create(ctx context.Context, attendee *domain.Attendee) error
	GetByID(ctx context.Context, id string) (*domain.Attendee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Attendee, error)
	List(ctx context.Context, limit, offset int) ([]domain.Attendee, error)
	Count(ctx context.Context) (int64, error)
}

type attendeeRepository struct {
	pool *pgxpool.Pool
}

// NewAttendeeRepository returns a Postgres-backed implementation.
func NewAttendeeRepository(pool *pgxpool.Pool) AttendeeRepository {
	return &attendeeRepository{pool: pool}
}

func (r *attendeeRepository) Create(ctx context.Context, attendee *domain.Attendee) error {
	const query = `
        INSERT INTO attendees (full_name, email, organization, position)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		attendee.FullName,
		attendee.Email,
		attendee.Organization,
		attendee.Position,
	).Scan(&attendee.ID, &attendee.CreatedAt, &attendee.UpdatedAt)
}

func (r *attendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	const query = `
        SELECT id, full_name, email, organization, position, created_at, updated_at
        FROM attendees WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *attendeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Attendee, error) {
	const query = `
        SELECT id, full_name, email, organization, position, created_at, updated_at
        FROM attendees WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *attendeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Attendee, error) {
	var attendee domain.Attendee
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&attendee.ID,
		&attendee.FullName,
		&attendee.Email,
		&attendee.Organization,
		&attendee.Position,
		&attendee.CreatedAt,
		&attendee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (r *attendeeRepository) List(ctx context.Context, limit, offset int) ([]domain.Attendee, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT id, full_name, email, organization, position, created_at, updated_at
        FROM attendees ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendees(rows)
}

func (r *attendeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendees`).Scan(&count)
	return count, err
}

func scanAttendees(rows pgx.Rows) ([]domain.Attendee, error) {
	var result []domain.Attendee
	for rows.Next() {
		var attendee domain.Attendee
		if err := rows.Scan(
			&attendee.ID,
			&attendee.FullName,
			&attendee.Email,
			&attendee.Organization,
			&attendee.Position,
			&attendee.CreatedAt,
			&attendee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attendee)
	}
	return result, rows.Err()
}
