package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"opsboard/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const sessionColumns = `
    id, employee_id, to_char(date, 'YYYY-MM-DD'), status, segments,
    total_duration, break_duration, created_at, updated_at`

func (s *Store) GetOrCreate(ctx context.Context, employeeID, date string) (*WorkSession, error) {
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO work_sessions (employee_id, date, status, segments)
    VALUES ($1, $2, $3, '[]')
    ON CONFLICT (employee_id, date) DO NOTHING
  `, employeeID, date, string(StatusNotStarted)); err != nil {
		return nil, err
	}
	return s.Get(ctx, employeeID, date)
}

func (s *Store) Get(ctx context.Context, employeeID, date string) (*WorkSession, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+sessionColumns+`
    FROM work_sessions
    WHERE employee_id = $1 AND date = $2
  `, employeeID, date)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *Store) ListRange(ctx context.Context, employeeID, from, to string) ([]WorkSession, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+sessionColumns+`
    FROM work_sessions
    WHERE employee_id = $1 AND date BETWEEN $2 AND $3
    ORDER BY date
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []WorkSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// ApplyTransition is the mutual-exclusion boundary per session: the update
// only lands when the row still carries the status the caller read. Zero
// rows affected means a concurrent transition won.
func (s *Store) ApplyTransition(ctx context.Context, session *WorkSession, expected Status) error {
	segmentsJSON, err := json.Marshal(session.Segments)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_sessions
    SET status = $1, segments = $2, total_duration = $3, break_duration = $4, updated_at = now()
    WHERE employee_id = $5 AND date = $6 AND status = $7
  `, string(session.Status), segmentsJSON, session.TotalDuration, session.BreakDuration,
		session.EmployeeID, session.Date, string(expected))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s/%s is no longer %s",
			ErrTransitionConflict, session.EmployeeID, session.Date, expected)
	}
	return nil
}

func scanSession(row pgx.Row) (*WorkSession, error) {
	var session WorkSession
	var segmentsRaw []byte
	if err := row.Scan(
		&session.ID, &session.EmployeeID, &session.Date, &session.Status, &segmentsRaw,
		&session.TotalDuration, &session.BreakDuration, &session.CreatedAt, &session.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(segmentsRaw, &session.Segments); err != nil {
		return nil, fmt.Errorf("decode segments for %s/%s: %w", session.EmployeeID, session.Date, err)
	}
	return &session, nil
}
