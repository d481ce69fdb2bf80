package attendance

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStore keeps sessions in a map and enforces the same conditional-update
// rule as the SQL store. staleOnce lets a test hand out an outdated read to
// simulate a lost race.
type fakeStore struct {
	sessions  map[string]*WorkSession
	staleOnce *WorkSession
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[string]*WorkSession{}}
}

func key(employeeID, date string) string {
	return employeeID + "/" + date
}

func copySession(s *WorkSession) *WorkSession {
	dup := *s
	dup.Segments = make([]WorkSegment, len(s.Segments))
	copy(dup.Segments, s.Segments)
	return &dup
}

func (f *fakeStore) GetOrCreate(_ context.Context, employeeID, date string) (*WorkSession, error) {
	if f.staleOnce != nil {
		stale := f.staleOnce
		f.staleOnce = nil
		return copySession(stale), nil
	}
	k := key(employeeID, date)
	if _, ok := f.sessions[k]; !ok {
		f.sessions[k] = &WorkSession{
			ID:         "ws-" + k,
			EmployeeID: employeeID,
			Date:       date,
			Status:     StatusNotStarted,
		}
	}
	return copySession(f.sessions[k]), nil
}

func (f *fakeStore) Get(_ context.Context, employeeID, date string) (*WorkSession, error) {
	if f.staleOnce != nil {
		stale := f.staleOnce
		f.staleOnce = nil
		return copySession(stale), nil
	}
	session, ok := f.sessions[key(employeeID, date)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(session), nil
}

func (f *fakeStore) ListRange(_ context.Context, employeeID, from, to string) ([]WorkSession, error) {
	var out []WorkSession
	for _, session := range f.sessions {
		if session.EmployeeID == employeeID && session.Date >= from && session.Date <= to {
			out = append(out, *copySession(session))
		}
	}
	return out, nil
}

func (f *fakeStore) ApplyTransition(_ context.Context, session *WorkSession, expected Status) error {
	current, ok := f.sessions[key(session.EmployeeID, session.Date)]
	if !ok || current.Status != expected {
		return ErrTransitionConflict
	}
	f.sessions[key(session.EmployeeID, session.Date)] = copySession(session)
	return nil
}

func newTestService(store StoreAPI) (*Service, *time.Time) {
	svc := NewService(store)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestSessionCreatedLazily(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	session, err := svc.Session(context.Background(), "emp-1", "2026-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != StatusNotStarted {
		t.Fatalf("expected not_started, got %s", session.Status)
	}
	if len(session.Segments) != 0 {
		t.Fatal("not_started session must have zero segments")
	}
}

func TestFullDayFlow(t *testing.T) {
	store := newFakeStore()
	svc, now := newTestService(store)
	ctx := context.Background()

	session, err := svc.Start(ctx, "emp-1", "2026-03-02")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.Status != StatusWorking {
		t.Fatalf("expected working, got %s", session.Status)
	}

	*now = now.Add(5 * time.Minute)
	session, err = svc.Break(ctx, "emp-1", "2026-03-02", BreakLunch, "")
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	if session.Status != StatusOnBreak {
		t.Fatalf("expected on_break, got %s", session.Status)
	}

	*now = now.Add(2 * time.Minute)
	session, err = svc.Resume(ctx, "emp-1", "2026-03-02")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}

	*now = now.Add(8 * time.Minute)
	session, err = svc.End(ctx, "emp-1", "2026-03-02")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if session.Status != StatusEnded {
		t.Fatalf("expected ended, got %s", session.Status)
	}
	if session.TotalDuration != 780 {
		t.Fatalf("expected 780 worked seconds, got %d", session.TotalDuration)
	}
	if session.BreakDuration != 120 {
		t.Fatalf("expected 120 break seconds, got %d", session.BreakDuration)
	}
	if OpenSegmentIndex(session.Segments) != -1 {
		t.Fatal("ended session must have no open segment")
	}
}

func TestBreakOnMissingSessionIsInvalid(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	_, err := svc.Break(context.Background(), "emp-1", "2026-03-02", BreakShort, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestInvalidTransitionLeavesSessionUnchanged(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Start(ctx, "emp-1", "2026-03-02"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Resume(ctx, "emp-1", "2026-03-02"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	stored := store.sessions[key("emp-1", "2026-03-02")]
	if stored.Status != StatusWorking || len(stored.Segments) != 1 {
		t.Fatalf("session mutated by rejected transition: %+v", stored)
	}
}

func TestRejectedDate(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	if _, err := svc.Start(context.Background(), "emp-1", "03/02/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestRacingStartsOnlyOneWins(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	// First request reads not_started and wins.
	if _, err := svc.Start(ctx, "emp-1", "2026-03-02"); err != nil {
		t.Fatalf("first start: %v", err)
	}

	// Second request raced the first: it also read not_started, but by the
	// time it writes, the row no longer matches.
	store.staleOnce = &WorkSession{
		ID:         "ws-emp-1/2026-03-02",
		EmployeeID: "emp-1",
		Date:       "2026-03-02",
		Status:     StatusNotStarted,
	}
	_, err := svc.Start(ctx, "emp-1", "2026-03-02")
	if !errors.Is(err, ErrTransitionConflict) {
		t.Fatalf("expected ErrTransitionConflict, got %v", err)
	}

	stored := store.sessions[key("emp-1", "2026-03-02")]
	if stored.Status != StatusWorking {
		t.Fatalf("expected working, got %s", stored.Status)
	}
	open := 0
	for _, seg := range stored.Segments {
		if seg.EndAt == nil {
			open++
		}
	}
	if len(stored.Segments) != 1 || open != 1 {
		t.Fatalf("expected exactly one open work segment, got %+v", stored.Segments)
	}
}
