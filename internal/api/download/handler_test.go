package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"diabeater-backend/internal/core"
	"diabeater-backend/internal/domain/feedback"
)

type stubContentRepo struct {
	doc map[string]any
}

func (r *stubContentRepo) GetDocument(context.Context) (map[string]any, bool, error) {
	return r.doc, true, nil
}

func (r *stubContentRepo) SaveDocument(context.Context, map[string]any) error { return nil }

type stubFeedbackRepo struct{}

func (stubFeedbackRepo) FetchFeatured(context.Context) ([]feedback.Testimonial, error) {
	return nil, nil
}

// newApkRouter builds a /download/apk route whose content points at apkURL.
func newApkRouter(t *testing.T, apkURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := core.NewContentStore(
		&stubContentRepo{doc: map[string]any{"apkDownloadUrl": apkURL, "googleDriveFallbackUrl": "https://drive.example/mirror"}},
		stubFeedbackRepo{},
		time.Hour,
		zap.NewNop(),
	)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go store.Run(ctx)

	sub := store.Subscribe(ctx)
	deadline := time.After(2 * time.Second)
	for {
		var ready bool
		select {
		case snap := <-sub:
			ready = !snap.Loading
		case <-deadline:
			t.Fatal("store never finished the initial refresh")
		}
		if ready {
			break
		}
	}

	h := NewHandler(store, core.NewDelivery(t.TempDir(), zap.NewNop()), zap.NewNop())
	r := gin.New()
	r.GET("/download/apk", h.Apk)
	return r
}

func getApk(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/apk", nil))
	return w
}

func TestApkStreamsRemoteInstaller(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("apk-bytes"))
	}))
	defer upstream.Close()

	w := getApk(newApkRouter(t, upstream.URL))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apk-bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "DiaBeater.apk")
}

func TestApkCleanFailureOffersMirror(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	w := getApk(newApkRouter(t, upstream.URL))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "https://drive.example/mirror")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestApkMidStreamFailureDoesNotAppendJSON(t *testing.T) {
	// Promise more bytes than are sent, so the proxy's copy dies after the
	// first chunk has already reached the client.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("partial-apk"))
	}))
	defer upstream.Close()

	w := getApk(newApkRouter(t, upstream.URL))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "partial-apk"))
	assert.NotContains(t, w.Body.String(), "fallbackUrl")
	assert.NotContains(t, w.Body.String(), "{")
}
