package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/checkin-service/internal/domain"
)

// DayAttendance is a per-day report row joining attendance with the
// attendee's registration record.
type DayAttendance struct {
	AttendeeID   string
	FullName     string
	Email        string
	Organization string
	ScannerID    string
	ScannedAt    time.Time
}

// AttendanceRepository persists attendance records. CheckIn is the single
// write path and must be atomic per (attendee, day): two concurrent calls
// for the same key resolve to one insert plus one read of the winner's row.
type AttendanceRepository interface {
	// CheckIn inserts a record unless one already exists for the
	// (attendeeID, day) key. It returns the durable record and whether this
	// call created it; when created is false the record belongs to an
	// earlier check-in.
	CheckIn(ctx context.Context, attendeeID string, day int, scannerID string) (*domain.AttendanceRecord, bool, error)
	GetByAttendeeDay(ctx context.Context, attendeeID string, day int) (*domain.AttendanceRecord, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]domain.AttendanceRecord, error)
	ListByDay(ctx context.Context, day int) ([]DayAttendance, error)
	CountByDay(ctx context.Context, day int) (int64, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository returns a Postgres-backed implementation.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

func (r *attendanceRepository) CheckIn(ctx context.Context, attendeeID string, day int, scannerID string) (*domain.AttendanceRecord, bool, error) {
	// The unique index on (attendee_id, day) arbitrates concurrent inserts.
	// ON CONFLICT DO NOTHING makes the losing insert return zero rows, so a
	// check-then-insert race is impossible regardless of caller count.
	const insertQuery = `
        INSERT INTO attendance (attendee_id, day, scanner_staff_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (attendee_id, day) DO NOTHING
        RETURNING id, scanned_at`

	record := &domain.AttendanceRecord{
		AttendeeID: attendeeID,
		Day:        day,
		ScannerID:  scannerID,
	}
	err := r.pool.QueryRow(ctx, insertQuery, attendeeID, day, scannerID).
		Scan(&record.ID, &record.ScannedAt)
	if err == nil {
		return record, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Lost the race (or a record already existed): surface the winner so
	// the operator sees the original check-in time.
	existing, err := r.GetByAttendeeDay(ctx, attendeeID, day)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *attendanceRepository) GetByAttendeeDay(ctx context.Context, attendeeID string, day int) (*domain.AttendanceRecord, error) {
	const query = `
        SELECT id, attendee_id, day, scanner_staff_id, scanned_at
        FROM attendance WHERE attendee_id=$1 AND day=$2`

	var record domain.AttendanceRecord
	if err := r.pool.QueryRow(ctx, query, attendeeID, day).Scan(
		&record.ID,
		&record.AttendeeID,
		&record.Day,
		&record.ScannerID,
		&record.ScannedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) ListByAttendee(ctx context.Context, attendeeID string) ([]domain.AttendanceRecord, error) {
	const query = `
        SELECT id, attendee_id, day, scanner_staff_id, scanned_at
        FROM attendance WHERE attendee_id=$1 ORDER BY scanned_at DESC`

	rows, err := r.pool.Query(ctx, query, attendeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AttendanceRecord
	for rows.Next() {
		var record domain.AttendanceRecord
		if err := rows.Scan(
			&record.ID,
			&record.AttendeeID,
			&record.Day,
			&record.ScannerID,
			&record.ScannedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (r *attendanceRepository) ListByDay(ctx context.Context, day int) ([]DayAttendance, error) {
	const query = `
        SELECT a.attendee_id, att.full_name, att.email, att.organization, a.scanner_staff_id, a.scanned_at
        FROM attendance a
        JOIN attendees att ON att.id = a.attendee_id
        WHERE a.day=$1
        ORDER BY a.scanned_at DESC`

	rows, err := r.pool.Query(ctx, query, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayAttendance
	for rows.Next() {
		var row DayAttendance
		if err := rows.Scan(
			&row.AttendeeID,
			&row.FullName,
			&row.Email,
			&row.Organization,
			&row.ScannerID,
			&row.ScannedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *attendanceRepository) CountByDay(ctx context.Context, day int) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendance WHERE day=$1`, day).Scan(&count)
	return count, err
}
