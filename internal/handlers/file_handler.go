package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/storage"
)

// FileOpener resolves a signed download token to the stored file.
type FileOpener interface {
	Open(token string) (*os.File, string, error)
}

var _ FileOpener = (*storage.LocalStorage)(nil)

type FileHandler struct {
	files FileOpener
}

func NewFileHandler(files FileOpener) *FileHandler {
	return &FileHandler{files: files}
}

// @Summary Download File
// @Description Serves a stored document through a link from /documents/{id}/url
// @Tags Documents
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /files [get]
func (h *FileHandler) Download(c *gin.Context) {
	f, name, err := h.files.Open(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found or link expired"})
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found or link expired"})
		return
	}

	c.Header("Content-Type", storage.PDFMimeType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), f)
}
