package demtile

import (
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fetchAll(t *testing.T, urlTemplate string, cache TileCache) []*TileResponse {
	t.Helper()

	generator, err := NewXYZJobGenerator(urlTemplate, izuOshimaBound, 12, 5*time.Second, cache)
	if err != nil {
		t.Fatalf("NewXYZJobGenerator() error = %v", err)
	}

	jobs := make(chan *TileRequest, 16)
	results := make(chan *TileResponse, 16)
	if err := generator.CreateJobs(jobs); err != nil {
		t.Fatalf("CreateJobs() error = %v", err)
	}
	close(jobs)

	worker, err := generator.CreateWorker()
	if err != nil {
		t.Fatalf("CreateWorker() error = %v", err)
	}
	worker(0, jobs, results)
	close(results)

	var responses []*TileResponse
	for resp := range results {
		responses = append(responses, resp)
	}
	return responses
}

// A fetched tile lands in the cache, so a second pass over the same box
// never goes back to the server.
func TestXYZWorkerPopulatesCache(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		requests.Add(1)
		w.Write([]byte("10,20,30"))
	}))
	defer server.Close()

	cache, err := NewMemoryCache(16)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}
	urlTemplate := server.URL + "/{z}/{x}/{y}.txt"

	first := fetchAll(t, urlTemplate, cache)
	if len(first) != 4 {
		t.Fatalf("got %d responses, want 4", len(first))
	}
	for _, resp := range first {
		if resp.Data == nil {
			t.Fatalf("tile %v came back without data", resp.Tile)
		}
	}
	if n := requests.Load(); n != 4 {
		t.Fatalf("server saw %d requests after first pass, want 4", n)
	}

	second := fetchAll(t, urlTemplate, cache)
	if len(second) != 4 {
		t.Fatalf("got %d responses on second pass, want 4", len(second))
	}
	for _, resp := range second {
		if string(resp.Data) != "10,20,30" {
			t.Errorf("cached tile %v = %q, want %q", resp.Tile, resp.Data, "10,20,30")
		}
	}
	if n := requests.Load(); n != 4 {
		t.Errorf("server saw %d requests after second pass, want 4 (cache not consulted)", n)
	}
}

// Tiles the server does not have flow through as empty responses and are
// not cached as bodies.
func TestXYZWorkerMissingTile(t *testing.T) {
	server := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		gohttp.NotFound(w, r)
	}))
	defer server.Close()

	cache, err := NewMemoryCache(16)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}

	responses := fetchAll(t, server.URL+"/{z}/{x}/{y}.txt", cache)
	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 4", len(responses))
	}
	for _, resp := range responses {
		if resp.Data != nil {
			t.Errorf("missing tile %v came back with data", resp.Tile)
		}
		if _, ok := cache.Cached(resp.Tile); ok {
			t.Errorf("missing tile %v was cached", resp.Tile)
		}
	}
}
