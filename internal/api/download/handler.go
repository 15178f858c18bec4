package download

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diabeater-backend/internal/core"
)

const installerFileName = "DiaBeater.apk"

type Handler struct {
	store    *core.ContentStore
	delivery *core.Delivery
	log      *zap.Logger
}

func NewHandler(store *core.ContentStore, delivery *core.Delivery, log *zap.Logger) *Handler {
	return &Handler{store: store, delivery: delivery, log: log}
}

// countingWriter tracks whether anything reached the client yet.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Apk streams the installer from wherever the current content points: a
// remote URL is proxied through, anything else is served from the local
// asset dir. On failure before the first byte the client gets the mirror
// link instead of a bare error.
func (h *Handler) Apk(c *gin.Context) {
	content := h.store.Snapshot().Content

	c.Header("Content-Type", "application/vnd.android.package-archive")
	c.Header("Content-Disposition", `attachment; filename="`+installerFileName+`"`)

	sink := &countingWriter{w: c.Writer}
	if h.delivery.Download(c.Request.Context(), sink, content.APKDownloadURL) {
		return
	}

	// Once installer bytes are out, the status is committed and appending
	// JSON would corrupt the partial file; the truncated body is all we can
	// signal with.
	if sink.n > 0 {
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", "")
	c.JSON(http.StatusBadGateway, gin.H{
		"error":       "Download failed. Please use the mirror link.",
		"fallbackUrl": content.GoogleDriveFallbackURL,
	})
}

// Links returns every distribution channel the landing page offers.
func (h *Handler) Links(c *gin.Context) {
	content := h.store.Snapshot().Content
	c.JSON(http.StatusOK, gin.H{
		"appStoreLink":           content.AppStoreLink,
		"googlePlayLink":         content.GooglePlayLink,
		"apkDownloadUrl":         content.APKDownloadURL,
		"googleDriveFallbackUrl": content.GoogleDriveFallbackURL,
		"isHosted":               content.IsHosted,
	})
}

// FallbackPrompt long-polls the download grace period: it answers with the
// mirror link once the period elapses, or 204 when the client gives up
// first (download finished client-side).
func (h *Handler) FallbackPrompt(c *gin.Context) {
	elapsed := make(chan struct{})
	cancel := h.delivery.ScheduleFallback(c.Request.Context(), func() { close(elapsed) })
	defer cancel()

	select {
	case <-elapsed:
		content := h.store.Snapshot().Content
		c.JSON(http.StatusOK, gin.H{
			"showFallback": true,
			"fallbackUrl":  content.GoogleDriveFallbackURL,
		})
	case <-c.Request.Context().Done():
		c.Status(http.StatusNoContent)
	}
}
