package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edushare/edushare-api/internal/dto"
	"github.com/edushare/edushare-api/internal/service"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/response"
)

// LecturerHandler wires HTTP endpoints to the profile service.
type LecturerHandler struct {
	service *service.ProfileService
}

// NewLecturerHandler creates a new handler.
func NewLecturerHandler(svc *service.ProfileService) *LecturerHandler {
	return &LecturerHandler{service: svc}
}

// Get godoc
// @Summary Get the lecturer profile
// @Description Returns the contact card students see on the landing page.
// @Tags Lecturer
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lecturer [get]
func (h *LecturerHandler) Get(c *gin.Context) {
	profile, err := h.service.GetMain(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Upsert godoc
// @Summary Create or update the lecturer profile
// @Tags Lecturer
// @Accept json
// @Produce json
// @Param payload body dto.UpsertLecturerRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /lecturer [put]
func (h *LecturerHandler) Upsert(c *gin.Context) {
	var req dto.UpsertLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	profile, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
