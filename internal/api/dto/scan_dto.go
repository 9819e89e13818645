package dto

import "time"

// ScanRequest carries one raw capture-device payload.
type ScanRequest struct {
	Payload string `json:"payload"`
}

// ScanResponse is the operator-facing scan outcome.
type ScanResponse struct {
	Status    string            `json:"status"`
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Day       int               `json:"day,omitempty"`
	ScannedAt *time.Time        `json:"scanned_at,omitempty"`
	Attendee  *AttendeeResponse `json:"attendee,omitempty"`
}
