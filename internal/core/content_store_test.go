package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"diabeater-backend/internal/domain/content"
	"diabeater-backend/internal/domain/feedback"
)

type fakeContentRepo struct {
	mu     sync.Mutex
	doc    map[string]any
	exists bool
	err    error
	saved  []map[string]any
}

func (r *fakeContentRepo) GetDocument(_ context.Context) (map[string]any, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc, r.exists, r.err
}

func (r *fakeContentRepo) SaveDocument(_ context.Context, partial map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, partial)
	return nil
}

func (r *fakeContentRepo) set(doc map[string]any, exists bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc, r.exists, r.err = doc, exists, err
}

type fakeFeedbackRepo struct {
	mu           sync.Mutex
	testimonials []feedback.Testimonial
	err          error
}

func (r *fakeFeedbackRepo) FetchFeatured(_ context.Context) ([]feedback.Testimonial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.testimonials, r.err
}

// waitFor drains ch until a snapshot satisfies pred or the deadline hits.
func waitFor(t *testing.T, ch <-chan ContentSnapshot, pred func(ContentSnapshot) bool) ContentSnapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				t.Fatal("subscription closed before the expected snapshot")
			}
			if pred(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func TestStorePublishesNormalizedContentWithTestimonials(t *testing.T) {
	contents := &fakeContentRepo{doc: map[string]any{"heroTitle": "Hi"}, exists: true}
	feedbacks := &fakeFeedbackRepo{testimonials: []feedback.Testimonial{
		{ID: 1, Message: "Great app", UserFirstName: "Sarah", Rating: 5},
	}}
	store := NewContentStore(contents, feedbacks, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := store.Subscribe(ctx)
	go store.Run(ctx)

	snap := waitFor(t, ch, func(s ContentSnapshot) bool { return !s.Loading })
	if snap.Content.HeroTitle != "Hi" {
		t.Errorf("heroTitle = %q, want Hi", snap.Content.HeroTitle)
	}
	if snap.Content.HeroSubtitle != content.Defaults().HeroSubtitle {
		t.Errorf("heroSubtitle = %q, want default", snap.Content.HeroSubtitle)
	}
	if len(snap.Testimonials) != 1 || snap.Testimonials[0].UserFirstName != "Sarah" {
		t.Errorf("testimonials = %+v", snap.Testimonials)
	}
	if snap.Err != "" {
		t.Errorf("err = %q", snap.Err)
	}
}

func TestStoreServesDefaultsWhenDocumentReadFails(t *testing.T) {
	contents := &fakeContentRepo{err: errors.New("connection refused")}
	feedbacks := &fakeFeedbackRepo{testimonials: []feedback.Testimonial{
		{ID: 1, Message: "never shown", UserFirstName: "X", Rating: 5},
	}}
	store := NewContentStore(contents, feedbacks, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := store.Subscribe(ctx)
	go store.Run(ctx)

	snap := waitFor(t, ch, func(s ContentSnapshot) bool { return !s.Loading })
	if snap.Err != "Failed to load website content. Please try again." {
		t.Errorf("err = %q", snap.Err)
	}
	if snap.Content.HeroTitle != content.Defaults().HeroTitle {
		t.Errorf("heroTitle = %q, want default", snap.Content.HeroTitle)
	}
	if snap.Testimonials == nil || len(snap.Testimonials) != 0 {
		t.Errorf("testimonials = %v, want empty non-nil", snap.Testimonials)
	}
}

func TestStoreKeepsContentWhenFeedbackFetchFails(t *testing.T) {
	contents := &fakeContentRepo{doc: map[string]any{"heroTitle": "Hi"}, exists: true}
	feedbacks := &fakeFeedbackRepo{err: errors.New("timeout")}
	store := NewContentStore(contents, feedbacks, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := store.Subscribe(ctx)
	go store.Run(ctx)

	snap := waitFor(t, ch, func(s ContentSnapshot) bool { return !s.Loading })
	if snap.Content.HeroTitle != "Hi" {
		t.Errorf("heroTitle = %q, content dropped with the testimonials", snap.Content.HeroTitle)
	}
	if len(snap.Testimonials) != 0 {
		t.Errorf("testimonials = %v, want empty", snap.Testimonials)
	}
	if snap.Err == "" {
		t.Error("feedback failure not surfaced")
	}
}

func TestInvalidateTriggersImmediateRefresh(t *testing.T) {
	contents := &fakeContentRepo{doc: map[string]any{"heroTitle": "v1"}, exists: true}
	store := NewContentStore(contents, &fakeFeedbackRepo{}, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := store.Subscribe(ctx)
	go store.Run(ctx)

	waitFor(t, ch, func(s ContentSnapshot) bool { return s.Content.HeroTitle == "v1" })

	contents.set(map[string]any{"heroTitle": "v2"}, true, nil)
	store.Invalidate()

	waitFor(t, ch, func(s ContentSnapshot) bool { return s.Content.HeroTitle == "v2" })
}

func TestSubscribeDeliversCurrentSnapshotImmediately(t *testing.T) {
	store := NewContentStore(&fakeContentRepo{}, &fakeFeedbackRepo{}, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := store.Subscribe(ctx)

	select {
	case snap := <-ch:
		if !snap.Loading {
			t.Error("initial snapshot not marked loading")
		}
		if snap.Content.HeroTitle == "" {
			t.Error("initial snapshot has no content")
		}
	default:
		t.Fatal("no snapshot delivered on subscribe")
	}
}

func TestShutdownClosesSubscriptions(t *testing.T) {
	store := NewContentStore(&fakeContentRepo{}, &fakeFeedbackRepo{}, time.Hour, zap.NewNop())

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(runCtx)
		close(done)
	}()

	ch := store.Subscribe(context.Background())
	<-ch // initial snapshot

	stop()
	<-done

	select {
	case _, ok := <-ch:
		if ok {
			// Drain whatever was buffered before teardown.
			for range ch {
			}
		}
	case <-time.After(time.Second):
		t.Fatal("subscription not closed on shutdown")
	}

	if late := store.Subscribe(context.Background()); late == nil {
		t.Fatal("nil channel from closed store")
	} else if _, ok := <-late; ok {
		t.Error("closed store delivered a snapshot")
	}
}
