package models

import "time"

// DownloadRecord is an immutable audit event for one download request that
// reached the recording step. Content title and type are denormalized so the
// history survives content deletion.
type DownloadRecord struct {
	ID           string      `json:"id"`
	ContentID    string      `json:"contentId"`
	ContentTitle string      `json:"contentTitle"`
	ContentType  ContentType `json:"contentType"`
	Student      StudentInfo `json:"studentInfo"`
	DownloadDate time.Time   `json:"downloadDate"`
	IPAddress    *string     `json:"ipAddress,omitempty"`
}
