package attendance

import (
	"fmt"
	"time"
)

// segmentSeconds is the whole-second length of seg evaluated at now.
// An open segment is closed at now; sub-second remainders are truncated so
// the same segment list always yields the same integer at the same instant.
func segmentSeconds(seg WorkSegment, now time.Time) int64 {
	end := now
	if seg.EndAt != nil {
		end = *seg.EndAt
	}
	d := end.Sub(seg.StartAt)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// WorkedSeconds sums the work segments of the log, valuing the open segment
// (if it is a work segment) against now. Re-derivable at any time, not only
// at end.
func WorkedSeconds(segments []WorkSegment, now time.Time) int64 {
	var total int64
	for _, seg := range segments {
		if seg.Type == SegmentWork {
			total += segmentSeconds(seg, now)
		}
	}
	return total
}

// BreakSeconds is the break-segment counterpart of WorkedSeconds.
func BreakSeconds(segments []WorkSegment, now time.Time) int64 {
	var total int64
	for _, seg := range segments {
		if seg.Type == SegmentBreak {
			total += segmentSeconds(seg, now)
		}
	}
	return total
}

// OpenSegmentIndex returns the index of the open segment, or -1 when every
// segment is closed.
func OpenSegmentIndex(segments []WorkSegment) int {
	for i, seg := range segments {
		if seg.EndAt == nil {
			return i
		}
	}
	return -1
}

// ValidateSegments checks the structural invariants of the append-only log:
// at most one open segment, and if present it is the last element.
func ValidateSegments(segments []WorkSegment) error {
	open := -1
	for i, seg := range segments {
		if seg.EndAt == nil {
			if open >= 0 {
				return fmt.Errorf("segments %d and %d are both open", open, i)
			}
			open = i
		}
	}
	if open >= 0 && open != len(segments)-1 {
		return fmt.Errorf("open segment %d is not the last of %d", open, len(segments))
	}
	return nil
}

// closeOpenSegment sets EndAt=now on the open segment, if any.
func closeOpenSegment(segments []WorkSegment, now time.Time) {
	if i := OpenSegmentIndex(segments); i >= 0 {
		end := now
		segments[i].EndAt = &end
	}
}

// applyStart: not_started -> working, opening the first work segment.
func applyStart(s *WorkSession, now time.Time) error {
	if s.Status != StatusNotStarted {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.Status)
	}
	s.Segments = append(s.Segments, WorkSegment{Type: SegmentWork, StartAt: now})
	s.Status = StatusWorking
	return nil
}

// applyBreak: working -> on_break, closing the open work segment and opening
// a break segment of the given type.
func applyBreak(s *WorkSession, now time.Time, breakType, note string) error {
	if s.Status != StatusWorking {
		return fmt.Errorf("%w: break from %s", ErrInvalidTransition, s.Status)
	}
	closeOpenSegment(s.Segments, now)
	s.Segments = append(s.Segments, WorkSegment{
		Type:      SegmentBreak,
		StartAt:   now,
		BreakType: breakType,
		Note:      note,
	})
	s.Status = StatusOnBreak
	return nil
}

// applyResume: on_break -> working.
func applyResume(s *WorkSession, now time.Time) error {
	if s.Status != StatusOnBreak {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, s.Status)
	}
	closeOpenSegment(s.Segments, now)
	s.Segments = append(s.Segments, WorkSegment{Type: SegmentWork, StartAt: now})
	s.Status = StatusWorking
	return nil
}

// applyEnd closes whatever segment is open and finalizes the cached totals.
func applyEnd(s *WorkSession, now time.Time) error {
	if s.Status != StatusWorking && s.Status != StatusOnBreak {
		return fmt.Errorf("%w: end from %s", ErrInvalidTransition, s.Status)
	}
	closeOpenSegment(s.Segments, now)
	s.Status = StatusEnded
	s.TotalDuration = WorkedSeconds(s.Segments, now)
	s.BreakDuration = BreakSeconds(s.Segments, now)
	return nil
}
