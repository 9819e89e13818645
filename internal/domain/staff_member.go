package domain

import "time"

// StaffRole determines what a staff account may do.
type StaffRole string

const (
	StaffRoleAdmin   StaffRole = "ADMIN"
	StaffRoleScanner StaffRole = "SCANNER"
)

// StaffMember is an operator account: the people running scanner devices
// and viewing attendance reports.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
