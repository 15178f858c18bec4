package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"diabeater-backend/internal/domain/content"
	"diabeater-backend/internal/domain/feedback"
)

// ContentSnapshot is the combined landing-page state published to
// subscribers. Content is always a complete record — the error path swaps
// in the full defaults rather than leaving holes — and Testimonials is
// never nil.
type ContentSnapshot struct {
	Content      content.MarketingContent
	Testimonials []feedback.Testimonial
	Loading      bool
	Err          string
}

// ContentStore keeps the landing-page content warm. It re-reads the remote
// content document on a fixed interval and whenever Invalidate is called,
// then fetches the featured testimonials for that emission, and publishes
// the two as a single combined snapshot. Reads run sequentially in the Run
// goroutine, so a newer emission can never be overwritten by a stale
// testimonial fetch.
type ContentStore struct {
	contents  ContentRepository
	feedbacks FeedbackRepository
	log       *zap.Logger
	interval  time.Duration

	mu      sync.Mutex
	last    ContentSnapshot
	subs    map[uint64]chan ContentSnapshot
	nextSub uint64
	closed  bool

	invalidate chan struct{}
}

const defaultRefreshInterval = 30 * time.Second

func NewContentStore(contents ContentRepository, feedbacks FeedbackRepository, interval time.Duration, log *zap.Logger) *ContentStore {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &ContentStore{
		contents:  contents,
		feedbacks: feedbacks,
		log:       log,
		interval:  interval,
		last: ContentSnapshot{
			Content:      content.Defaults(),
			Testimonials: []feedback.Testimonial{},
			Loading:      true,
		},
		subs:       make(map[uint64]chan ContentSnapshot),
		invalidate: make(chan struct{}, 1),
	}
}

// Run refreshes until ctx is cancelled. After teardown no snapshot is
// published to anyone.
func (s *ContentStore) Run(ctx context.Context) {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.teardown()
			return
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.invalidate:
			s.refresh(ctx)
		}
	}
}

// Invalidate requests an immediate refresh (called after an admin saves the
// content document). Coalesces if one is already pending.
func (s *ContentStore) Invalidate() {
	select {
	case s.invalidate <- struct{}{}:
	default:
	}
}

// Subscribe registers a listener and immediately delivers the current
// snapshot. The subscription is removed when ctx is cancelled.
func (s *ContentStore) Subscribe(ctx context.Context) <-chan ContentSnapshot {
	ch := make(chan ContentSnapshot, 4)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.last
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.mu.Unlock()
	}()

	return ch
}

// Snapshot returns the most recently published state.
func (s *ContentStore) Snapshot() ContentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *ContentStore) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	doc, exists, err := s.contents.GetDocument(ctx)
	if err != nil {
		s.log.Warn("content document read failed, serving defaults", zap.Error(err))
		s.publish(ctx, ContentSnapshot{
			Content:      content.Defaults(),
			Testimonials: []feedback.Testimonial{},
			Err:          "Failed to load website content. Please try again.",
		})
		return
	}

	rendered := content.Defaults()
	if exists {
		rendered = content.Normalize(doc)
	} else {
		s.log.Warn("content document not found, using default fallback")
	}

	// Dependent fetch: testimonials belong to this emission.
	testimonials, err := s.feedbacks.FetchFeatured(ctx)
	if err != nil {
		s.log.Warn("featured feedback fetch failed", zap.Error(err))
		s.publish(ctx, ContentSnapshot{
			Content:      rendered,
			Testimonials: []feedback.Testimonial{},
			Err:          "Failed to load website content. Please try again.",
		})
		return
	}
	if testimonials == nil {
		testimonials = []feedback.Testimonial{}
	}

	s.publish(ctx, ContentSnapshot{
		Content:      rendered,
		Testimonials: testimonials,
	})
}

func (s *ContentStore) publish(ctx context.Context, snap ContentSnapshot) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.last = snap
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Slow subscriber; it will catch up on the next publish.
		}
	}
}

func (s *ContentStore) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
