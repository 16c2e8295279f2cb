package models

import "time"

// OfficeHours maps a day name to a free-text availability window.
type OfficeHours map[string]string

// LecturerProfile describes the lecturer shown on the contact page. The
// system assumes a single live profile; GetMain encodes that convention.
type LecturerProfile struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	Office      string      `json:"office,omitempty"`
	Department  string      `json:"department"`
	Title       string      `json:"title"`
	Bio         string      `json:"bio"`
	OfficeHours OfficeHours `json:"officeHours"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
