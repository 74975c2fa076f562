package tba

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/config"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/storage"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger("error", "test")
	m.Run()
}

func testConfig(baseURL string) config.TBAConfig {
	return config.TBAConfig{
		BaseURL:           baseURL,
		AuthKey:           "test-key",
		RequestTimeout:    5 * time.Second,
		RateLimitRequests: 25,
		RateLimitWindow:   time.Minute,
		CacheTTL:          time.Minute,
	}
}

type upstream struct {
	mu    sync.Mutex
	hits  []time.Time
	paths []string
}

func (u *upstream) record(r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hits = append(u.hits, time.Now())
	u.paths = append(u.paths, r.URL.Path)
}

func (u *upstream) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.hits)
}

func (u *upstream) hitTimes() []time.Time {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]time.Time(nil), u.hits...)
}

func TestFetchRequiresAuthKey(t *testing.T) {
	cfg := testConfig("http://localhost:0")
	cfg.AuthKey = ""
	client := NewClient(cfg, storage.NewMemStore())

	if _, err := client.Fetch(context.Background(), "/events/2025"); !errors.Is(err, ErrMissingAuthKey) {
		t.Fatalf("expected ErrMissingAuthKey, got %v", err)
	}
}

func TestFetchSendsAuthHeader(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-TBA-Auth-Key")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), storage.NewMemStore())

	if _, err := client.Fetch(context.Background(), "/events/2025"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected auth header to be sent, got %q", gotKey)
	}
}

func TestFetchCacheIdempotence(t *testing.T) {
	up := &upstream{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.record(r)
		fmt.Fprint(w, `[{"key":"2025new"}]`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), storage.NewMemStore())

	first, err := client.Fetch(context.Background(), "/events/2025")
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := client.Fetch(context.Background(), "/events/2025")
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("cached response differs: %s vs %s", first, second)
	}
	if up.count() != 1 {
		t.Fatalf("expected exactly 1 upstream call, got %d", up.count())
	}
}

func TestFetchDoesNotCacheFailures(t *testing.T) {
	up := &upstream{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.record(r)
		if up.count() == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), storage.NewMemStore())

	if _, err := client.Fetch(context.Background(), "/events/2025"); err == nil {
		t.Fatal("expected first fetch to fail")
	}
	if _, err := client.Fetch(context.Background(), "/events/2025"); err != nil {
		t.Fatalf("expected second fetch to succeed, got %v", err)
	}
	if up.count() != 2 {
		t.Fatalf("expected failure to bypass the cache, got %d upstream calls", up.count())
	}
}

func TestFetchRateLimitError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), storage.NewMemStore())

	if _, err := client.Fetch(context.Background(), "/events/2025"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestFetchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), storage.NewMemStore())

	_, err := client.Fetch(context.Background(), "/event/nope")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", apiErr.StatusCode)
	}
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewClient(testConfig(server.URL), storage.NewMemStore())

	_, err := client.Fetch(context.Background(), "/events/2025")
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
}

func TestFetchCanceledContextReturnsEarly(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(testConfig(server.URL), storage.NewMemStore())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := client.Fetch(ctx, "/events/2025"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRateLimiterBoundsDispatchRate(t *testing.T) {
	up := &upstream{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.record(r)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RateLimitRequests = 3
	cfg.RateLimitWindow = 300 * time.Millisecond
	client := NewClient(cfg, storage.NewMemStore())

	for i := 0; i < 5; i++ {
		path := fmt.Sprintf("/event/2025e%d", i)
		if _, err := client.Fetch(context.Background(), path); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}

	hits := up.hitTimes()
	if len(hits) != 5 {
		t.Fatalf("expected 5 upstream calls, got %d", len(hits))
	}

	// The first three dispatch immediately; the fourth must wait for the
	// window to elapse.
	if burst := hits[2].Sub(hits[0]); burst > cfg.RateLimitWindow {
		t.Fatalf("first %d requests should fit one window, spread over %s", cfg.RateLimitRequests, burst)
	}
	if gap := hits[3].Sub(hits[0]); gap < cfg.RateLimitWindow {
		t.Fatalf("request over the ceiling dispatched after only %s", gap)
	}
}

func TestQueuedDuplicateServedFromCache(t *testing.T) {
	up := &upstream{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.record(r)
		time.Sleep(10 * time.Millisecond)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), storage.NewMemStore())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Fetch(context.Background(), "/events/2025"); err != nil {
				t.Errorf("concurrent fetch failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if up.count() != 1 {
		t.Fatalf("expected queued duplicates to be answered from cache, got %d upstream calls", up.count())
	}
}
