package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"diabeater-backend/internal/core"
)

type Handler struct {
	store *core.ContentStore
}

func NewHandler(store *core.ContentStore) *Handler {
	return &Handler{store: store}
}

// Get serves the landing-page content. It always answers 200 with a
// complete record; a backend hiccup surfaces as the defaults plus a
// non-empty error string, never a blank page.
func (h *Handler) Get(c *gin.Context) {
	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"content":      snap.Content,
		"testimonials": snap.Testimonials,
		"loading":      snap.Loading,
		"error":        snap.Err,
	})
}
