package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process vector store using brute-force cosine
// similarity. It is the default backend and the one tests exercise.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	points    map[string][]Point // namespace -> points
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string][]Point)}
}

func (s *MemoryStore) Init(_ context.Context, dimension int, forceRecreate bool) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if forceRecreate || s.dimension != dimension {
		s.points = make(map[string][]Point)
	}
	s.dimension = dimension
	return nil
}

func (s *MemoryStore) Upsert(_ context.Context, namespace string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		if len(p.Vector) != s.dimension {
			return fmt.Errorf("point %s: dimension %d, want %d", p.ID, len(p.Vector), s.dimension)
		}
	}
	existing := s.points[namespace]
	for _, p := range points {
		replaced := false
		for i := range existing {
			if existing[i].ID == p.ID {
				existing[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, p)
		}
	}
	s.points[namespace] = existing
	return nil
}

func (s *MemoryStore) Search(_ context.Context, namespace string, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 6
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := s.points[namespace]
	matches := make([]Match, 0, len(points))
	for _, p := range points {
		matches = append(matches, Match{
			ID:       p.ID,
			Score:    cosine(vector, p.Vector),
			Metadata: p.Metadata,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *MemoryStore) Clear(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.points, namespace)
	return nil
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
