package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edushare/edushare-api/internal/dto"
	"github.com/edushare/edushare-api/internal/models"
	"github.com/edushare/edushare-api/internal/service"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/response"
)

// ContentHandler wires HTTP endpoints to the content and feed services.
type ContentHandler struct {
	content     *service.ContentService
	feed        *service.FeedService
	metrics     *service.MetricsService
	maxFileSize int64
}

// NewContentHandler creates a new handler.
func NewContentHandler(content *service.ContentService, feed *service.FeedService, metrics *service.MetricsService, maxFileSize int64) *ContentHandler {
	return &ContentHandler{content: content, feed: feed, metrics: metrics, maxFileSize: maxFileSize}
}

// List godoc
// @Summary List content
// @Description List content visible to the caller, newest first. Anonymous callers see public items only.
// @Tags Content
// @Produce json
// @Param type query string false "Filter by content type (pdf, video, powerpoint)"
// @Success 200 {object} response.Envelope
// @Router /content [get]
func (h *ContentHandler) List(c *gin.Context) {
	privileged := isPrivileged(c)

	var (
		items []models.ContentItem
		err   error
	)
	if kind := c.Query("type"); kind != "" {
		items, err = h.content.ListByType(c.Request.Context(), privileged, models.ContentType(kind))
	} else {
		items, err = h.content.List(c.Request.Context(), privileged)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get content item
// @Tags Content
// @Produce json
// @Param id path string true "Content ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /content/{id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	item, err := h.content.Get(c.Request.Context(), c.Param("id"), isPrivileged(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Upload godoc
// @Summary Upload content
// @Description Upload new material. File kinds carry a multipart file part; video kinds carry a video URL.
// @Tags Content
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param contentType formData string true "Content type"
// @Param visibility formData string true "Visibility"
// @Param file formData file false "Uploaded file for pdf and powerpoint kinds"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /content [post]
func (h *ContentHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UploadContentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload payload"))
		return
	}

	var (
		file     io.Reader
		fileName string
		fileSize int64
	)
	if header, err := c.FormFile("file"); err == nil {
		if h.maxFileSize > 0 && header.Size > h.maxFileSize {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the maximum allowed size"))
			return
		}
		opened, err := header.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
			return
		}
		defer opened.Close() //nolint:errcheck
		file = opened
		fileName = header.Filename
		fileSize = header.Size
	}

	item, err := h.content.Upload(c.Request.Context(), req, file, fileName, fileSize, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordUpload(string(item.Type))
	response.Created(c, item)
}

// Delete godoc
// @Summary Delete content
// @Tags Content
// @Produce json
// @Param id path string true "Content ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /content/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.content.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RecordView godoc
// @Summary Record a content view
// @Description Bump the view counter. Always succeeds; counter failures are absorbed server side.
// @Tags Content
// @Produce json
// @Param id path string true "Content ID"
// @Success 204 {object} response.Envelope
// @Router /content/{id}/views [post]
func (h *ContentHandler) RecordView(c *gin.Context) {
	h.content.IncrementViews(c.Request.Context(), c.Param("id"))
	response.NoContent(c)
}

// Statistics godoc
// @Summary Content statistics
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/stats [get]
func (h *ContentHandler) Statistics(c *gin.Context) {
	stats, err := h.content.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Stream godoc
// @Summary Live content feed
// @Description Server-sent events stream. Each event carries the full visibility-shaped listing; the first event is the snapshot at connect time.
// @Tags Content
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /content/stream [get]
func (h *ContentHandler) Stream(c *gin.Context) {
	sub := h.feed.Subscribe(c.Request.Context(), isPrivileged(c))
	defer sub.Unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		select {
		case batch, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("content", batch)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
