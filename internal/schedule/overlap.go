package schedule

import "fmt"

// EventSlot is the slice of an event the overlap check needs. The zero ID
// marks a candidate that has not been persisted yet.
type EventSlot struct {
	ID        string
	Title     string
	StartDate string
	StartTime string
	EndTime   string
}

// ConflictError reports that a candidate event overlaps an accepted event on
// the same date. Its message is user-facing and must stay distinguishable
// from generic validation failures.
type ConflictError struct {
	Date string
	With string
}

func (e *ConflictError) Error() string {
	if e.With != "" {
		return fmt.Sprintf("time slot already occupied on %s by %q", e.Date, e.With)
	}
	return fmt.Sprintf("time slot already occupied on %s", e.Date)
}

// FindConflict returns the first existing event whose occupied range on the
// candidate's start date overlaps the candidate's range. Events on other
// dates never conflict, and the candidate's own id is skipped so an update
// does not collide with the stored version of the event being edited.
func FindConflict(candidate EventSlot, existing []EventSlot) (EventSlot, bool) {
	r := ComputeRange(candidate.StartTime, candidate.EndTime)
	for _, ev := range existing {
		if candidate.ID != "" && ev.ID == candidate.ID {
			continue
		}
		if ev.StartDate != candidate.StartDate {
			continue
		}
		if r.Overlaps(ComputeRange(ev.StartTime, ev.EndTime)) {
			return ev, true
		}
	}
	return EventSlot{}, false
}

// HasConflict reports whether any existing same-date event overlaps the
// candidate.
func HasConflict(candidate EventSlot, existing []EventSlot) bool {
	_, ok := FindConflict(candidate, existing)
	return ok
}
