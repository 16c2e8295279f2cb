package dto

import "github.com/edushare/edushare-api/internal/models"

// UploadContentRequest carries the multipart metadata for a new content item.
// The file part travels separately; video kinds supply VideoURL instead.
type UploadContentRequest struct {
	Title             string             `form:"title" json:"title" validate:"required"`
	Description       string             `form:"description" json:"description"`
	CourseTitle       string             `form:"courseTitle" json:"courseTitle"`
	CourseDescription string             `form:"courseDescription" json:"courseDescription"`
	Category          string             `form:"category" json:"category"`
	Tags              []string           `form:"tags" json:"tags"`
	ContentType       models.ContentType `form:"contentType" json:"contentType" validate:"required"`
	Visibility        models.Visibility  `form:"visibility" json:"visibility" validate:"required"`
	VideoURL          string             `form:"videoURL" json:"videoURL"`
	VideoDuration     int64              `form:"videoDuration" json:"videoDuration"`
	VideoThumbnail    string             `form:"videoThumbnail" json:"videoThumbnail"`
}

// ContentResponse wraps a content item for single-item endpoints.
type ContentResponse struct {
	models.ContentItem
}
