package domain

import "time"

// Attendee is the identity record created at registration. It is immutable
// once registered; the check-in flow only reads it.
type Attendee struct {
	ID           string
	FullName     string
	Email        string
	Organization string
	Position     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
