package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"diabeater-backend/internal/core"
	"diabeater-backend/internal/domain/feedback"
)

type stubContentRepo struct {
	doc    map[string]any
	exists bool
	err    error
}

func (r *stubContentRepo) GetDocument(context.Context) (map[string]any, bool, error) {
	return r.doc, r.exists, r.err
}

func (r *stubContentRepo) SaveDocument(context.Context, map[string]any) error { return nil }

type stubFeedbackRepo struct {
	testimonials []feedback.Testimonial
}

func (r *stubFeedbackRepo) FetchFeatured(context.Context) ([]feedback.Testimonial, error) {
	return r.testimonials, nil
}

func serveContent(t *testing.T, contents *stubContentRepo, feedbacks *stubFeedbackRepo) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := core.NewContentStore(contents, feedbacks, time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx)

	// Wait for the first refresh to land.
	sub := store.Subscribe(ctx)
	deadline := time.After(2 * time.Second)
	for {
		var done bool
		select {
		case snap := <-sub:
			done = !snap.Loading
		case <-deadline:
			t.Fatal("store never finished the initial refresh")
		}
		if done {
			break
		}
	}

	r := gin.New()
	r.GET("/content", NewHandler(store).Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/content", nil))
	return w
}

func TestGetContentServesStoredDocument(t *testing.T) {
	w := serveContent(t,
		&stubContentRepo{doc: map[string]any{"heroTitle": "Hi"}, exists: true},
		&stubFeedbackRepo{testimonials: []feedback.Testimonial{
			{ID: 1, Message: "Great app", UserFirstName: "Sarah", Rating: 5},
		}},
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Content struct {
			HeroTitle    string `json:"heroTitle"`
			HeroSubtitle string `json:"heroSubtitle"`
		} `json:"content"`
		Testimonials []feedback.Testimonial `json:"testimonials"`
		Error        string                 `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Hi", body.Content.HeroTitle)
	assert.NotEmpty(t, body.Content.HeroSubtitle)
	assert.Len(t, body.Testimonials, 1)
	assert.Empty(t, body.Error)
}

func TestGetContentNeverServesBlankPage(t *testing.T) {
	w := serveContent(t,
		&stubContentRepo{err: errors.New("connection refused")},
		&stubFeedbackRepo{},
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Content struct {
			HeroTitle string `json:"heroTitle"`
		} `json:"content"`
		Testimonials []feedback.Testimonial `json:"testimonials"`
		Error        string                 `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Content.HeroTitle, "defaults must fill in when the store fails")
	assert.NotNil(t, body.Testimonials)
	assert.Equal(t, "Failed to load website content. Please try again.", body.Error)
}
