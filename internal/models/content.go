package models

import "time"

// ContentType tags the kind of material a content item carries.
type ContentType string

const (
	ContentTypePDF        ContentType = "pdf"
	ContentTypeVideo      ContentType = "video"
	ContentTypePowerPoint ContentType = "powerpoint"
)

// Valid reports whether the content type is one of the known kinds.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypePDF, ContentTypeVideo, ContentTypePowerPoint:
		return true
	}
	return false
}

// HasFile reports whether the kind is backed by an uploaded blob.
func (t ContentType) HasFile() bool {
	return t == ContentTypePDF || t == ContentTypePowerPoint
}

// UploadFolder returns the blob store folder for file-backed kinds.
func (t ContentType) UploadFolder() string {
	switch t {
	case ContentTypePDF:
		return "pdfs"
	case ContentTypePowerPoint:
		return "powerpoints"
	}
	return ""
}

// Visibility controls which audience may query a content item.
type Visibility string

const (
	VisibilityPublic       Visibility = "public"
	VisibilityLecturerOnly Visibility = "lecturer_only"
)

// Valid reports whether the visibility level is known.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityLecturerOnly
}

// FileAttachment carries the blob-backed attributes of pdf and powerpoint
// content.
type FileAttachment struct {
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	DownloadURL string `json:"downloadURL"`
}

// VideoAttachment carries the attributes of video-link content.
type VideoAttachment struct {
	URL             string `json:"videoURL"`
	DurationSeconds int64  `json:"videoDuration,omitempty"`
	ThumbnailURL    string `json:"videoThumbnail,omitempty"`
}

// ContentItem is one shareable unit of educational material. Exactly one of
// File and Video is set, matching Type.
type ContentItem struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	CourseTitle       string           `json:"courseTitle"`
	CourseDescription string           `json:"courseDescription"`
	Category          string           `json:"category"`
	Tags              []string         `json:"tags"`
	Type              ContentType      `json:"contentType"`
	Visibility        Visibility       `json:"visibility"`
	File              *FileAttachment  `json:"file,omitempty"`
	Video             *VideoAttachment `json:"video,omitempty"`
	UploadDate        time.Time        `json:"uploadDate"`
	Downloads         int64            `json:"downloads"`
	Views             int64            `json:"views"`
	UploadedBy        string           `json:"uploadedBy"`
}

// Validate checks the attachment variant against the content type.
func (c *ContentItem) Validate() bool {
	if !c.Type.Valid() || !c.Visibility.Valid() {
		return false
	}
	if c.Type.HasFile() {
		return c.File != nil && c.Video == nil
	}
	return c.Video != nil && c.File == nil
}

// ContentStatistics aggregates dashboard figures over all content.
type ContentStatistics struct {
	TotalContent      int64                 `json:"totalContent"`
	TotalDownloads    int64                 `json:"totalDownloads"`
	TotalViews        int64                 `json:"totalViews"`
	TotalStudents     int64                 `json:"totalStudents"`
	ContentByType     map[ContentType]int64 `json:"contentByType"`
	PublicContent     int64                 `json:"publicContent"`
	RestrictedContent int64                 `json:"restrictedContent"`
	GeneratedAt       time.Time             `json:"generatedAt"`
}
