package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var eventStart = time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)

func TestCurrentDay_WithinEventWindow(t *testing.T) {
	cal := New(eventStart, 3)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"morning of first day", time.Date(2025, 6, 25, 9, 0, 0, 0, time.UTC), 1},
		{"late evening of last day", time.Date(2025, 6, 27, 23, 0, 0, 0, time.UTC), 3},
		{"exactly 24h in still counts as day 1", time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC), 1},
		{"one second past the 24h boundary is day 2", time.Date(2025, 6, 26, 0, 0, 1, 0, time.UTC), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cal.CurrentDay(tc.now))
		})
	}
}

func TestCurrentDay_OutsideEventWindow(t *testing.T) {
	cal := New(eventStart, 3)

	tests := []struct {
		name string
		now  time.Time
	}{
		{"day before the event", time.Date(2025, 6, 24, 12, 0, 0, 0, time.UTC)},
		{"exact start instant, day has not begun", eventStart},
		{"just past the last day", time.Date(2025, 6, 28, 0, 1, 0, 0, time.UTC)},
		{"weeks later", time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, DayInactive, cal.CurrentDay(tc.now))
		})
	}
}

func TestDayAt_SingleDayEvent(t *testing.T) {
	day := DayAt(eventStart.Add(6*time.Hour), eventStart, 1)
	assert.Equal(t, 1, day)

	day = DayAt(eventStart.Add(25*time.Hour), eventStart, 1)
	assert.Equal(t, DayInactive, day)
}

func TestDayInactive_IsNotAValidDay(t *testing.T) {
	assert.Less(t, DayInactive, 1)
}
