package models

import (
	"strings"
	"time"
)

// StudentInfo is the identity a student submits before downloading. Records
// are keyed by normalized email.
type StudentInfo struct {
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	MatricNumber string    `json:"matricNumber"`
	Department   string    `json:"department"`
	Level        string    `json:"level"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail canonicalizes an email for use as a student key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Departments is the fixed list offered on the download form.
var Departments = []string{
	"Computer Science",
	"Information Technology",
	"Software Engineering",
	"Electrical Engineering",
	"Mechanical Engineering",
	"Civil Engineering",
	"Business Administration",
	"Accounting",
	"Economics",
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"English",
	"Mass Communication",
	"Law",
	"Medicine",
	"Nursing",
	"Pharmacy",
	"Other",
}

// Levels is the fixed list of study levels.
var Levels = []string{
	"100 Level",
	"200 Level",
	"300 Level",
	"400 Level",
	"500 Level",
	"600 Level",
	"Postgraduate",
}

// ValidDepartment reports membership in the fixed department list.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// ValidLevel reports membership in the fixed level list.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}
