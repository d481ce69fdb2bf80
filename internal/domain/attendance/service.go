package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type StoreAPI interface {
	// GetOrCreate returns the session for (employeeID, date), creating it
	// lazily at not_started if absent.
	GetOrCreate(ctx context.Context, employeeID, date string) (*WorkSession, error)
	// Get returns ErrSessionNotFound when no row exists.
	Get(ctx context.Context, employeeID, date string) (*WorkSession, error)
	ListRange(ctx context.Context, employeeID, from, to string) ([]WorkSession, error)
	// ApplyTransition persists the mutated session, guarded on the status the
	// session had when it was read. Returns ErrTransitionConflict when a
	// concurrent transition got there first.
	ApplyTransition(ctx context.Context, session *WorkSession, expected Status) error
}

// Service owns the per-day attendance state machine. Transitions are
// serialized per (employeeID, date) by the store's conditional update, so
// two racing requests can never leave two open segments behind.
type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// Session returns the day's record, creating it lazily at not_started.
func (s *Service) Session(ctx context.Context, employeeID, date string) (*WorkSession, error) {
	if err := validateKey(employeeID, date); err != nil {
		return nil, err
	}
	return s.store.GetOrCreate(ctx, employeeID, date)
}

// Sessions lists the employee's records in the inclusive [from, to] range.
func (s *Service) Sessions(ctx context.Context, employeeID, from, to string) ([]WorkSession, error) {
	if err := validateKey(employeeID, from); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return nil, ErrInvalidDate
	}
	return s.store.ListRange(ctx, employeeID, from, to)
}

// Start begins the day: not_started -> working.
func (s *Service) Start(ctx context.Context, employeeID, date string) (*WorkSession, error) {
	if err := validateKey(employeeID, date); err != nil {
		return nil, err
	}
	session, err := s.store.GetOrCreate(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, session, func(sess *WorkSession, now time.Time) error {
		return applyStart(sess, now)
	})
}

// Break pauses work: working -> on_break. breakType is stored verbatim.
func (s *Service) Break(ctx context.Context, employeeID, date, breakType, note string) (*WorkSession, error) {
	session, err := s.load(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, session, func(sess *WorkSession, now time.Time) error {
		return applyBreak(sess, now, breakType, note)
	})
}

// Resume returns to work: on_break -> working.
func (s *Service) Resume(ctx context.Context, employeeID, date string) (*WorkSession, error) {
	session, err := s.load(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, session, func(sess *WorkSession, now time.Time) error {
		return applyResume(sess, now)
	})
}

// End closes the day from working or on_break and finalizes the totals.
func (s *Service) End(ctx context.Context, employeeID, date string) (*WorkSession, error) {
	session, err := s.load(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, session, func(sess *WorkSession, now time.Time) error {
		return applyEnd(sess, now)
	})
}

// load fetches without creating: a non-start transition on a missing session
// is equivalent to acting on a not_started one, which is invalid.
func (s *Service) load(ctx context.Context, employeeID, date string) (*WorkSession, error) {
	if err := validateKey(employeeID, date); err != nil {
		return nil, err
	}
	session, err := s.store.Get(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session for %s has not started", ErrInvalidTransition, date)
		}
		return nil, err
	}
	return session, nil
}

func (s *Service) transition(ctx context.Context, session *WorkSession, apply func(*WorkSession, time.Time) error) (*WorkSession, error) {
	expected := session.Status
	now := s.now()
	if err := apply(session, now); err != nil {
		return nil, err
	}
	if err := ValidateSegments(session.Segments); err != nil {
		return nil, fmt.Errorf("segment log corrupted for %s/%s: %w", session.EmployeeID, session.Date, err)
	}
	session.UpdatedAt = now
	if err := s.store.ApplyTransition(ctx, session, expected); err != nil {
		return nil, err
	}
	return session, nil
}

func validateKey(employeeID, date string) error {
	if employeeID == "" {
		return errors.New("employee id is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
