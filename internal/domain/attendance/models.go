package attendance

import "time"

// Status is the lifecycle state of a day's work session.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusWorking    Status = "working"
	StatusOnBreak    Status = "on_break"
	StatusEnded      Status = "ended"
)

type SegmentType string

const (
	SegmentWork  SegmentType = "work"
	SegmentBreak SegmentType = "break"
)

// Well-known break types. The field is an open enum: the UI may send other
// values ("meeting", "other", free text) and they are stored verbatim.
const (
	BreakShort = "short"
	BreakLong  = "long"
	BreakLunch = "lunch"
)

// WorkSegment is one contiguous interval of either working or breaking.
// EndAt is nil only while the segment is the open (most recent) one.
type WorkSegment struct {
	Type      SegmentType `json:"type"`
	StartAt   time.Time   `json:"startAt"`
	EndAt     *time.Time  `json:"endAt,omitempty"`
	BreakType string      `json:"breakType,omitempty"`
	Note      string      `json:"note,omitempty"`
}

// WorkSession is one employee's attendance record for one calendar day.
// Segments is an append-only log; closed segments are never mutated.
// TotalDuration and BreakDuration are cached worked/break seconds,
// authoritative once Status is ended.
type WorkSession struct {
	ID            string        `json:"id"`
	EmployeeID    string        `json:"employeeId"`
	Date          string        `json:"date"`
	Status        Status        `json:"status"`
	Segments      []WorkSegment `json:"segments"`
	TotalDuration int64         `json:"totalDuration"`
	BreakDuration int64         `json:"breakDuration"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
