package dto

import "github.com/edushare/edushare-api/internal/models"

// UpsertLecturerRequest creates or updates the lecturer profile.
type UpsertLecturerRequest struct {
	FirstName   string             `json:"firstName" validate:"required"`
	LastName    string             `json:"lastName" validate:"required"`
	Email       string             `json:"email" validate:"required,email"`
	Phone       string             `json:"phone"`
	Office      string             `json:"office"`
	Department  string             `json:"department"`
	Title       string             `json:"title"`
	Bio         string             `json:"bio"`
	OfficeHours models.OfficeHours `json:"officeHours"`
}
