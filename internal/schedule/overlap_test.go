package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeOverlaps(t *testing.T) {
	a := Range{Start: 840, End: 900} // 14:00-15:00

	assert.True(t, a.Overlaps(Range{Start: 870, End: 930}), "partial overlap")
	assert.True(t, a.Overlaps(Range{Start: 840, End: 900}), "identical range")
	assert.True(t, a.Overlaps(Range{Start: 850, End: 860}), "contained range")
	assert.False(t, a.Overlaps(Range{Start: 900, End: 960}), "abutting ranges do not overlap")
	assert.False(t, a.Overlaps(Range{Start: 780, End: 840}), "abutting from below")
}

func TestFindConflict(t *testing.T) {
	existing := []EventSlot{
		{ID: "a", Title: "Standup", StartDate: "2026-09-01", StartTime: "14:00", EndTime: "15:00"},
		{ID: "b", Title: "Review", StartDate: "2026-09-02", StartTime: "14:00", EndTime: "15:00"},
	}

	t.Run("same date overlap conflicts", func(t *testing.T) {
		hit, ok := FindConflict(EventSlot{StartDate: "2026-09-01", StartTime: "14:30", EndTime: "15:30"}, existing)
		assert.True(t, ok)
		assert.Equal(t, "Standup", hit.Title)
	})

	t.Run("abutting slot is free", func(t *testing.T) {
		assert.False(t, HasConflict(EventSlot{StartDate: "2026-09-01", StartTime: "15:00", EndTime: "16:00"}, existing))
	})

	t.Run("other dates never conflict", func(t *testing.T) {
		assert.False(t, HasConflict(EventSlot{StartDate: "2026-09-03", StartTime: "14:00", EndTime: "15:00"}, existing))
	})

	t.Run("all day event blocks everything that day", func(t *testing.T) {
		allDay := []EventSlot{{ID: "c", Title: "Offsite", StartDate: "2026-09-05"}}
		assert.True(t, HasConflict(EventSlot{StartDate: "2026-09-05", StartTime: "09:00", EndTime: "09:30"}, allDay))

		timed := []EventSlot{{ID: "d", Title: "Standup", StartDate: "2026-09-05", StartTime: "09:00", EndTime: "09:30"}}
		assert.True(t, HasConflict(EventSlot{StartDate: "2026-09-05"}, timed), "symmetry with the all-day candidate")
	})

	t.Run("own id is skipped on update", func(t *testing.T) {
		moved := EventSlot{ID: "a", StartDate: "2026-09-01", StartTime: "14:15", EndTime: "14:45"}
		assert.False(t, HasConflict(moved, existing))
	})
}
