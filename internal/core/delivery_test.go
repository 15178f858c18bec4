package core

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingTransport struct {
	calls int32
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&t.calls, 1)
	return t.next.RoundTrip(req)
}

func newTestDelivery(t *testing.T, transport http.RoundTripper) *Delivery {
	t.Helper()
	dir := t.TempDir()
	d := NewDelivery(dir, zap.NewNop())
	if transport != nil {
		d.client = &http.Client{Transport: transport}
	}
	return d
}

func TestDownloadRemoteFetchesOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("apk-bytes"))
	}))
	defer srv.Close()

	transport := &countingTransport{next: http.DefaultTransport}
	d := newTestDelivery(t, transport)

	var sink bytes.Buffer
	if !d.Download(context.Background(), &sink, srv.URL+"/diabeater.apk") {
		t.Fatal("remote download failed")
	}
	if sink.String() != "apk-bytes" {
		t.Errorf("body = %q", sink.String())
	}
	if atomic.LoadInt32(&transport.calls) != 1 {
		t.Errorf("transport calls = %d, want 1", transport.calls)
	}
}

func TestDownloadLocalNeverTouchesNetwork(t *testing.T) {
	transport := &countingTransport{next: http.DefaultTransport}
	d := newTestDelivery(t, transport)

	if err := os.MkdirAll(filepath.Join(d.assetDir, "apk"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(d.assetDir, "apk", "diabeater.apk"), []byte("local-apk"), 0o644); err != nil {
		t.Fatal(err)
	}

	var sink bytes.Buffer
	if !d.Download(context.Background(), &sink, "apk/diabeater.apk") {
		t.Fatal("local download failed")
	}
	if sink.String() != "local-apk" {
		t.Errorf("body = %q", sink.String())
	}
	if atomic.LoadInt32(&transport.calls) != 0 {
		t.Errorf("transport calls = %d, want 0 for local path", transport.calls)
	}
}

func TestDownloadMissingLocalFileReturnsFalse(t *testing.T) {
	d := newTestDelivery(t, nil)

	var sink bytes.Buffer
	if d.Download(context.Background(), &sink, "apk/missing.apk") {
		t.Error("missing file reported as success")
	}
}

func TestDownloadRemoteNon200ReturnsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := newTestDelivery(t, nil)
	var sink bytes.Buffer
	if d.Download(context.Background(), &sink, srv.URL) {
		t.Error("404 reported as success")
	}
}

func TestFallbackFiresAfterDelay(t *testing.T) {
	d := newTestDelivery(t, nil)
	d.delay = 10 * time.Millisecond

	fired := make(chan struct{})
	d.ScheduleFallback(context.Background(), func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("fallback never fired")
	}
}

func TestFallbackCancelledByCompletion(t *testing.T) {
	d := newTestDelivery(t, nil)
	d.delay = 20 * time.Millisecond

	var fired atomic.Bool
	cancel := d.ScheduleFallback(context.Background(), func() { fired.Store(true) })
	cancel()
	cancel() // repeat cancel is a no-op

	time.Sleep(60 * time.Millisecond)
	if fired.Load() {
		t.Error("fallback fired after cancellation")
	}
}

func TestFallbackCancelledByContext(t *testing.T) {
	d := newTestDelivery(t, nil)
	d.delay = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var fired atomic.Bool
	d.ScheduleFallback(ctx, func() { fired.Store(true) })
	cancel()

	time.Sleep(60 * time.Millisecond)
	if fired.Load() {
		t.Error("fallback fired after context cancellation")
	}
}

func TestDownloadWithFallbackSuppressesPromptOnFastSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("apk-bytes"))
	}))
	defer srv.Close()

	d := newTestDelivery(t, nil)
	d.delay = 50 * time.Millisecond

	var fired atomic.Bool
	var sink bytes.Buffer
	ok := d.DownloadWithFallback(context.Background(), &sink, srv.URL, func() { fired.Store(true) })
	if !ok {
		t.Fatal("download failed")
	}

	time.Sleep(100 * time.Millisecond)
	if fired.Load() {
		t.Error("fallback fired although download completed in time")
	}
}
