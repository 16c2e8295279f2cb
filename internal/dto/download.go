package dto

// RecordDownloadRequest is the student-facing form gating a file download.
type RecordDownloadRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	MatricNumber string `json:"matricNumber" validate:"required"`
	Department   string `json:"department" validate:"required"`
	Level        string `json:"level" validate:"required"`
	PhoneNumber  string `json:"phoneNumber"`
}

// RecordDownloadResponse confirms the recorded download and tells the client
// where to fetch the file.
type RecordDownloadResponse struct {
	DownloadID  string `json:"downloadId"`
	DownloadURL string `json:"downloadURL,omitempty"`
}
