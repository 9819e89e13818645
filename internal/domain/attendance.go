package domain

import "time"

// AttendanceRecord marks that an attendee was present on a given event day.
// At most one record exists per (attendee, day); the attendance table's
// unique constraint is the authority for that invariant. Records are never
// mutated or deleted.
type AttendanceRecord struct {
	ID         string
	AttendeeID string
	Day        int
	ScannerID  string
	ScannedAt  time.Time
}
