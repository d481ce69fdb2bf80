package reports

import (
	"context"
	"fmt"
	"time"

	"opsboard/internal/domain/attendance"
)

// SessionSource is the slice of the attendance store the reports read.
type SessionSource interface {
	ListRange(ctx context.Context, employeeID, from, to string) ([]attendance.WorkSession, error)
}

type DayTotal struct {
	Date          string            `json:"date"`
	Status        attendance.Status `json:"status"`
	WorkedSeconds int64             `json:"workedSeconds"`
	BreakSeconds  int64             `json:"breakSeconds"`
}

type MonthlySummary struct {
	EmployeeID    string     `json:"employeeId"`
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	Days          []DayTotal `json:"days"`
	WorkedSeconds int64      `json:"workedSeconds"`
	BreakSeconds  int64      `json:"breakSeconds"`
	DaysWorked    int        `json:"daysWorked"`
}

type Service struct {
	sessions SessionSource
	now      func() time.Time
}

func NewService(sessions SessionSource) *Service {
	return &Service{sessions: sessions, now: time.Now}
}

// Monthly aggregates one employee's sessions for a calendar month. Sessions
// still in flight are valued at the current wall clock, same as the live
// dashboard view.
func (s *Service) Monthly(ctx context.Context, employeeID string, year int, month time.Month) (*MonthlySummary, error) {
	if year < 2000 || year > 2200 {
		return nil, fmt.Errorf("year %d out of range", year)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month %d out of range", month)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	sessions, err := s.sessions.ListRange(ctx, employeeID, first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{EmployeeID: employeeID, Year: year, Month: month}
	now := s.now()
	for _, session := range sessions {
		day := DayTotal{
			Date:          session.Date,
			Status:        session.Status,
			WorkedSeconds: attendance.WorkedSeconds(session.Segments, now),
			BreakSeconds:  attendance.BreakSeconds(session.Segments, now),
		}
		summary.Days = append(summary.Days, day)
		summary.WorkedSeconds += day.WorkedSeconds
		summary.BreakSeconds += day.BreakSeconds
		if day.WorkedSeconds > 0 {
			summary.DaysWorked++
		}
	}
	return summary, nil
}
