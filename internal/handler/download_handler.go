package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edushare/edushare-api/internal/dto"
	"github.com/edushare/edushare-api/internal/service"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/response"
)

// DownloadHandler wires HTTP endpoints to the download service.
type DownloadHandler struct {
	service *service.DownloadService
	metrics *service.MetricsService
}

// NewDownloadHandler creates a new handler.
func NewDownloadHandler(svc *service.DownloadService, metrics *service.MetricsService) *DownloadHandler {
	return &DownloadHandler{service: svc, metrics: metrics}
}

// Record godoc
// @Summary Record a student download
// @Description Students submit identifying details to unlock a file download. Registers the student on first sight and appends to the audit log.
// @Tags Downloads
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param payload body dto.RecordDownloadRequest true "Student details"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /content/{id}/downloads [post]
func (h *DownloadHandler) Record(c *gin.Context) {
	var req dto.RecordDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student details"))
		return
	}

	res, err := h.service.RecordStudentDownload(c.Request.Context(), c.Param("id"), req, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordDownload()
	response.Created(c, res)
}

// List godoc
// @Summary List download records
// @Description Newest download records for the lecturer dashboard.
// @Tags Downloads
// @Produce json
// @Param limit query int false "Maximum records to return" default(50)
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /downloads [get]
func (h *DownloadHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}

// Export godoc
// @Summary Export the download log
// @Tags Downloads
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Param limit query int false "Maximum records to export" default(500)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /downloads/export [get]
func (h *DownloadHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "500"))

	payload, contentType, err := h.service.Export(c.Request.Context(), format, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("downloads_%s.%s", time.Now().UTC().Format("20060102_150405"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

// GetStudent godoc
// @Summary Get a registered student
// @Tags Downloads
// @Produce json
// @Param email path string true "Student email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{email} [get]
func (h *DownloadHandler) GetStudent(c *gin.Context) {
	info, err := h.service.GetStudent(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
