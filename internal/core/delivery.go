package core

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// fallbackDelay is how long a download gets before the caller is told to
// offer the mirror link instead.
const fallbackDelay = 8 * time.Second

// Delivery streams the installer to a client, choosing between a remote
// fetch and a local asset by the shape of the configured URL.
type Delivery struct {
	client   *http.Client
	assetDir string
	log      *zap.Logger
	delay    time.Duration
}

func NewDelivery(assetDir string, log *zap.Logger) *Delivery {
	return &Delivery{
		client:   &http.Client{Timeout: 2 * time.Minute},
		assetDir: assetDir,
		log:      log,
		delay:    fallbackDelay,
	}
}

// Download copies the installer into sink. URLs with an http/https scheme
// are fetched over the network; anything else is served from the local
// asset directory. Failures are logged and reported as false — the caller
// falls back to the mirror prompt, never an error page.
func (d *Delivery) Download(ctx context.Context, sink io.Writer, url string) bool {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return d.downloadRemote(ctx, sink, url)
	}
	return d.downloadLocal(sink, url)
}

func (d *Delivery) downloadRemote(ctx context.Context, sink io.Writer, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		d.log.Error("installer fetch request invalid", zap.String("url", url), zap.Error(err))
		return false
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.log.Error("installer fetch failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.log.Error("installer fetch returned non-200",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return false
	}
	if _, err := io.Copy(sink, resp.Body); err != nil {
		d.log.Error("installer stream interrupted", zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}

func (d *Delivery) downloadLocal(sink io.Writer, rel string) bool {
	// The path is config- or admin-supplied, never raw client input, but
	// keep it inside the asset dir regardless.
	path := filepath.Join(d.assetDir, filepath.Clean("/"+rel))
	f, err := os.Open(path)
	if err != nil {
		d.log.Error("local installer missing", zap.String("path", path), zap.Error(err))
		return false
	}
	defer f.Close()

	if _, err := io.Copy(sink, f); err != nil {
		d.log.Error("local installer stream interrupted", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// ScheduleFallback runs fn after the delay unless the returned cancel is
// called or ctx ends first. fn runs at most once.
func (d *Delivery) ScheduleFallback(ctx context.Context, fn func()) (cancel func()) {
	timer := time.NewTimer(d.delay)
	done := make(chan struct{})

	go func() {
		select {
		case <-timer.C:
			fn()
		case <-done:
		case <-ctx.Done():
		}
		timer.Stop()
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// DownloadWithFallback streams the installer and invokes fallback when the
// download has neither finished nor failed fast within the grace period.
// A download that completes in time cancels the pending prompt.
func (d *Delivery) DownloadWithFallback(ctx context.Context, sink io.Writer, url string, fallback func()) bool {
	cancel := d.ScheduleFallback(ctx, fallback)
	ok := d.Download(ctx, sink, url)
	if ok {
		cancel()
	}
	return ok
}
