package rag

import (
	"context"
	"testing"
)

func TestMemoryStore_UpsertAndSearch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Init(ctx, 3, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	points := []Point{
		{ID: "row_0", Vector: []float32{1, 0, 0}, Metadata: map[string]string{"State": "Assam"}},
		{ID: "row_1", Vector: []float32{0, 1, 0}, Metadata: map[string]string{"State": "Jharkhand"}},
		{ID: "row_2", Vector: []float32{0.9, 0.1, 0}, Metadata: map[string]string{"State": "Odisha"}},
	}
	if err := store.Upsert(ctx, "", points); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	matches, err := store.Search(ctx, "", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "row_0" {
		t.Errorf("expected row_0 first, got %s", matches[0].ID)
	}
	if matches[1].ID != "row_2" {
		t.Errorf("expected row_2 second, got %s", matches[1].ID)
	}
	if matches[0].Score < matches[1].Score {
		t.Error("expected matches sorted by descending score")
	}
	if matches[0].Metadata["State"] != "Assam" {
		t.Errorf("expected metadata to travel with the match, got %v", matches[0].Metadata)
	}
}

func TestMemoryStore_UpsertReplacesByID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Init(ctx, 2, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	first := []Point{{ID: "row_0", Vector: []float32{1, 0}, Metadata: map[string]string{"v": "old"}}}
	second := []Point{{ID: "row_0", Vector: []float32{0, 1}, Metadata: map[string]string{"v": "new"}}}
	if err := store.Upsert(ctx, "", first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Upsert(ctx, "", second); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	matches, err := store.Search(ctx, "", []float32{0, 1}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match after replacement, got %d", len(matches))
	}
	if matches[0].Metadata["v"] != "new" {
		t.Errorf("expected replaced metadata, got %v", matches[0].Metadata)
	}
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Init(ctx, 3, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	err := store.Upsert(ctx, "", []Point{{ID: "x", Vector: []float32{1, 0}}})
	if err == nil {
		t.Error("expected dimension mismatch error, got nil")
	}
}

func TestMemoryStore_Namespaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Init(ctx, 2, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := store.Upsert(ctx, "a", []Point{{ID: "x", Vector: []float32{1, 0}}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	matches, err := store.Search(ctx, "b", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches in other namespace, got %d", len(matches))
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Init(ctx, 2, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := store.Upsert(ctx, "", []Point{{ID: "x", Vector: []float32{1, 0}}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Clear(ctx, ""); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	matches, err := store.Search(ctx, "", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty store after Clear, got %d matches", len(matches))
	}
}

func TestMemoryStore_InitForceRecreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Init(ctx, 2, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := store.Upsert(ctx, "", []Point{{ID: "x", Vector: []float32{1, 0}}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Init(ctx, 2, true); err != nil {
		t.Fatalf("Init force: %v", err)
	}
	matches, err := store.Search(ctx, "", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty store after force recreate, got %d matches", len(matches))
	}
}
