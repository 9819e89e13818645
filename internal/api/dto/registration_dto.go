package dto

import "time"

// RegistrationRequest payload for attendee intake.
type RegistrationRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Position     string `json:"position"`
}

// AttendeeResponse is the public view of a registration record.
type AttendeeResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization,omitempty"`
	Position     string    `json:"position,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegistrationResponse bundles the new attendee with their credential. The
// credential token is what gets rendered as a QR code client-side.
type RegistrationResponse struct {
	Attendee   AttendeeResponse `json:"attendee"`
	Credential string           `json:"credential"`
}
