package admincontent

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diabeater-backend/internal/core"
	"diabeater-backend/internal/storage"
)

type Handler struct {
	contents core.ContentRepository
	store    *core.ContentStore
	files    storage.Store
	log      *zap.Logger
}

func NewHandler(contents core.ContentRepository, store *core.ContentStore, files storage.Store, log *zap.Logger) *Handler {
	return &Handler{contents: contents, store: store, files: files, log: log}
}

// UpdateContent merges the submitted fields into the live content document.
// Unknown keys are stored as-is; reads normalize them away.
func (h *Handler) UpdateContent(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(partial) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.contents.SaveDocument(c.Request.Context(), partial); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save content"})
		return
	}

	h.store.Invalidate()
	c.JSON(http.StatusOK, gin.H{"message": "Content updated"})
}

// UploadAPK stores a new hosted installer and points the content document
// at it.
func (h *Handler) UploadAPK(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select an APK file (.apk extension)."})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	path, err := h.files.SaveInstaller(fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contents.SaveDocument(c.Request.Context(), map[string]any{
		"apkDownloadUrl": path,
		"isHosted":       true,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Installer stored but content not updated"})
		return
	}

	h.store.Invalidate()
	h.log.Info("installer uploaded",
		zap.String("file", fileHeader.Filename), zap.Int64("size", fileHeader.Size))
	c.JSON(http.StatusOK, gin.H{"message": "Installer uploaded", "apkDownloadUrl": path})
}

// DeleteAPK removes the hosted installer and flips the content back to the
// external mirror.
func (h *Handler) DeleteAPK(c *gin.Context) {
	if err := h.files.RemoveInstaller(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove installer"})
		return
	}

	if err := h.contents.SaveDocument(c.Request.Context(), map[string]any{
		"isHosted": false,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Installer removed but content not updated"})
		return
	}

	h.store.Invalidate()
	c.JSON(http.StatusOK, gin.H{"message": "Installer removed"})
}
