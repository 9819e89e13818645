package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAttendeeRegistered EventType = "attendee_registered"
	EventCredentialIssued   EventType = "credential_issued"
	EventAttendanceRecorded EventType = "attendance_recorded"
)

// Event represents a domain event emitted by services. SubjectID is the
// attendee the event concerns.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AttendeeRegisteredPayload payload.
type AttendeeRegisteredPayload struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Organization string `json:"organization,omitempty"`
}

// CredentialIssuedPayload payload. The token itself is never published;
// it goes straight back to the registrant.
type CredentialIssuedPayload struct {
	Email   string `json:"email"`
	EventID string `json:"event_id"`
}

// AttendanceRecordedPayload payload.
type AttendanceRecordedPayload struct {
	Day       int       `json:"day"`
	ScannerID string    `json:"scanner_id"`
	ScannedAt time.Time `json:"scanned_at"`
}
