package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

// lengthEmbedder maps each text to a one-element vector of its length.
type lengthEmbedder struct {
	batches int32
	failOn  string
}

func (e *lengthEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	atomic.AddInt32(&e.batches, 1)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if text == e.failOn {
			return nil, errors.New("embedding rejected")
		}
		out[i] = []float32{float32(len(text))}
	}
	return out, nil
}

func TestEmbedAll_OrderPreserved(t *testing.T) {
	texts := make([]string, 25)
	for i := range texts {
		texts[i] = fmt.Sprintf("%0*d", i+1, 0) // length i+1
	}

	embedder := &lengthEmbedder{}
	vectors, err := EmbedAll(context.Background(), embedder, texts, 4, 3)
	if err != nil {
		t.Fatalf("EmbedAll: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	for i, v := range vectors {
		if v[0] != float32(i+1) {
			t.Errorf("vector %d: expected length %d, got %v", i, i+1, v[0])
		}
	}
	if got := atomic.LoadInt32(&embedder.batches); got != 7 {
		t.Errorf("expected 7 batches for 25 texts at batch size 4, got %d", got)
	}
}

func TestEmbedAll_ManyMoreJobsThanBuffer(t *testing.T) {
	// Far more batches than the pool's channel capacity; must not
	// deadlock.
	texts := make([]string, 200)
	for i := range texts {
		texts[i] = "t"
	}
	vectors, err := EmbedAll(context.Background(), &lengthEmbedder{}, texts, 1, 2)
	if err != nil {
		t.Fatalf("EmbedAll: %v", err)
	}
	if len(vectors) != 200 {
		t.Errorf("expected 200 vectors, got %d", len(vectors))
	}
}

func TestEmbedAll_BatchErrorFailsCall(t *testing.T) {
	texts := []string{"aa", "bb", "poison", "cc"}
	_, err := EmbedAll(context.Background(), &lengthEmbedder{failOn: "poison"}, texts, 2, 2)
	if err == nil {
		t.Fatal("expected error from failed batch")
	}
}

func TestEmbedAll_Empty(t *testing.T) {
	vectors, err := EmbedAll(context.Background(), &lengthEmbedder{}, nil, 4, 2)
	if err != nil {
		t.Fatalf("EmbedAll: %v", err)
	}
	if vectors != nil {
		t.Errorf("expected nil for empty input, got %v", vectors)
	}
}

func TestEmbedAll_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	texts := make([]string, 50)
	for i := range texts {
		texts[i] = "t"
	}
	if _, err := EmbedAll(ctx, &lengthEmbedder{}, texts, 1, 2); err == nil {
		t.Error("expected error for cancelled context")
	}
}
