package rag

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeQdrant mimics the collection lifecycle of the REST API: GET
// reports existence, PUT on an existing collection answers 409, and
// point upserts fail on unknown collections.
type fakeQdrant struct {
	mu          sync.Mutex
	collections map[string]bool
	creates     []string
	deletes     []string
	upserts     map[string]int
}

func newFakeQdrant() *fakeQdrant {
	return &fakeQdrant{
		collections: make(map[string]bool),
		upserts:     make(map[string]int),
	}
}

func (f *fakeQdrant) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		path := strings.TrimPrefix(r.URL.Path, "/collections/")
		switch {
		case r.Method == http.MethodGet && !strings.Contains(path, "/"):
			if !f.collections[path] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"result":{}}`))
		case r.Method == http.MethodPut && !strings.Contains(path, "/"):
			if f.collections[path] {
				w.WriteHeader(http.StatusConflict)
				return
			}
			f.collections[path] = true
			f.creates = append(f.creates, path)
			w.Write([]byte(`{"result":true}`))
		case r.Method == http.MethodDelete:
			if !f.collections[path] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(f.collections, path)
			f.deletes = append(f.deletes, path)
			w.Write([]byte(`{"result":true}`))
		case r.Method == http.MethodPut && strings.HasSuffix(path, "/points"):
			name := strings.TrimSuffix(path, "/points")
			if !f.collections[name] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			f.upserts[name]++
			w.Write([]byte(`{"result":{}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func qdrantUnderTest(t *testing.T) (*QdrantStore, *fakeQdrant) {
	t.Helper()
	fake := newFakeQdrant()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	store := NewQdrantStore(QdrantConfig{
		URL:        srv.URL,
		Collection: "mine-stats",
		Timeout:    5 * time.Second,
	})
	return store, fake
}

func somePoints() []Point {
	return []Point{
		{ID: "row_0", Vector: []float32{1, 0, 0}, Metadata: map[string]string{"State": "Jharkhand"}},
	}
}

func TestQdrantStore_InitLeavesExistingCollection(t *testing.T) {
	store, fake := qdrantUnderTest(t)
	fake.collections["mine-stats"] = true

	if err := store.Init(context.Background(), 3, false); err != nil {
		t.Fatalf("Init on existing collection: %v", err)
	}
	if len(fake.creates) != 0 {
		t.Errorf("expected no collection creation, got %v", fake.creates)
	}
}

func TestQdrantStore_SecondBuildAppends(t *testing.T) {
	store, fake := qdrantUnderTest(t)
	ctx := context.Background()

	if err := store.Init(ctx, 3, false); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := store.Upsert(ctx, "", somePoints()); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	// A fresh store forgets which collections it created, as a second
	// process or a restarted server would.
	again := NewQdrantStore(QdrantConfig{URL: store.url, Collection: "mine-stats"})
	if err := again.Init(ctx, 3, false); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if err := again.Upsert(ctx, "", somePoints()); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if got := fake.upserts["mine-stats"]; got != 2 {
		t.Errorf("upsert calls = %d, want 2", got)
	}
	if len(fake.creates) != 1 {
		t.Errorf("collection created %d times, want 1", len(fake.creates))
	}
}

func TestQdrantStore_UpsertCreatesNamespacedCollection(t *testing.T) {
	store, fake := qdrantUnderTest(t)
	ctx := context.Background()

	if err := store.Init(ctx, 3, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := store.Upsert(ctx, "q1-2015", somePoints()); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !fake.collections["mine-stats__q1-2015"] {
		t.Error("namespaced collection was not created")
	}
	if fake.upserts["mine-stats__q1-2015"] != 1 {
		t.Errorf("namespaced upserts = %d, want 1", fake.upserts["mine-stats__q1-2015"])
	}
}

func TestQdrantStore_ForceRecreateDropsNamespacedCollections(t *testing.T) {
	store, fake := qdrantUnderTest(t)
	ctx := context.Background()

	if err := store.Init(ctx, 3, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := store.Upsert(ctx, "q1-2015", somePoints()); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := store.Init(ctx, 3, true); err != nil {
		t.Fatalf("force Init: %v", err)
	}
	deleted := make(map[string]bool, len(fake.deletes))
	for _, name := range fake.deletes {
		deleted[name] = true
	}
	if !deleted["mine-stats"] || !deleted["mine-stats__q1-2015"] {
		t.Errorf("deletes = %v, want base and namespaced collections", fake.deletes)
	}
	if !fake.collections["mine-stats"] {
		t.Error("base collection not recreated after force")
	}
}

func TestQdrantStore_ClearMissingNamespace(t *testing.T) {
	store, _ := qdrantUnderTest(t)
	if err := store.Clear(context.Background(), "never-built"); err != nil {
		t.Fatalf("Clear on missing collection: %v", err)
	}
}
