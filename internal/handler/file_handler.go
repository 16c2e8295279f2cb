package handler

import (
	"errors"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"

	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/response"
	"github.com/edushare/edushare-api/pkg/storage"
)

// FileHandler serves stored blobs on the public file route.
type FileHandler struct {
	store *storage.BlobStore
}

// NewFileHandler creates a new handler.
func NewFileHandler(store *storage.BlobStore) *FileHandler {
	return &FileHandler{store: store}
}

// Serve godoc
// @Summary Download a stored file
// @Description Streams a previously uploaded blob. URLs under this route come from content records.
// @Tags Files
// @Produce octet-stream
// @Param path path string true "Stored file path"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /files/{path} [get]
func (h *FileHandler) Serve(c *gin.Context) {
	rel := c.Param("path")

	file, err := h.store.Open(rel)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	http.ServeContent(c.Writer, c.Request, path.Base(rel), info.ModTime(), file)
}
