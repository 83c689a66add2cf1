// Package schedule implements the time math behind event validation: parsing
// HH:MM clock strings, deriving the minute range an event occupies on its day,
// and detecting overlaps between events scheduled for the same date.
package schedule

import (
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the exclusive upper bound of any day range.
	MinutesPerDay = 1440

	// DefaultDurationMinutes is assumed when an event has a start time but
	// no end time.
	DefaultDurationMinutes = 60
)

// Range is a half-open interval [Start, End) of minutes since midnight.
type Range struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open ranges intersect. Ranges that merely
// abut (one ends exactly where the other starts) do not overlap.
func (r Range) Overlaps(o Range) bool {
	return o.Start < r.End && r.Start < o.End
}

// ParseClock converts a 24-hour "HH:MM" string to minutes since midnight.
// Anything that is not a well-formed clock value (empty, malformed, out of
// range) returns ok=false; callers treat that as "no time information".
func ParseClock(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ComputeRange derives the minute range an event occupies from its optional
// start and end times:
//
//   - neither time parses: the event takes the whole day, [0, 1440)
//   - start only: one-hour default duration, clipped to the end of the day
//   - end only: the range starts at midnight
//   - end at or before start: repaired to a minimum one-minute duration
//
// Malformed input is repaired rather than rejected, so the result always
// satisfies End > Start.
func ComputeRange(startTime, endTime string) Range {
	start, hasStart := ParseClock(startTime)
	end, hasEnd := ParseClock(endTime)

	switch {
	case !hasStart && !hasEnd:
		return Range{Start: 0, End: MinutesPerDay}
	case hasStart && !hasEnd:
		end = start + DefaultDurationMinutes
		if end > MinutesPerDay {
			end = MinutesPerDay
		}
	case !hasStart:
		start = 0
	}

	if end <= start {
		end = start + 1
		if end > MinutesPerDay {
			end = MinutesPerDay
		}
	}
	return Range{Start: start, End: end}
}
