package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// QdrantStore is a minimal REST client to a Qdrant collection using
// cosine distance. Namespaces map to collection name suffixes. Qdrant
// requires UUID point IDs, so row IDs are hashed into deterministic
// UUIDs and the original ID travels in the payload.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client

	created map[string]bool // collections known to exist
}

// QdrantConfig holds connection details for a Qdrant instance.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewQdrantStore creates a Qdrant-backed vector store.
func NewQdrantStore(cfg QdrantConfig) *QdrantStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &QdrantStore{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
		created:    make(map[string]bool),
	}
}

func (s *QdrantStore) collectionName(namespace string) string {
	if namespace == "" {
		return s.collection
	}
	return s.collection + "__" + namespace
}

// Init prepares the base collection. Without forceRecreate an existing
// collection is left as-is so repeated builds append instead of
// failing; with it, the base collection and every namespaced variant
// this store created are dropped first.
func (s *QdrantStore) Init(ctx context.Context, dimension int, forceRecreate bool) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	s.dimension = dimension
	if forceRecreate {
		names := []string{s.collection}
		for name := range s.created {
			if name != s.collection {
				names = append(names, name)
			}
		}
		for _, name := range names {
			if err := s.deleteCollection(ctx, name); err != nil {
				return err
			}
		}
		s.created = make(map[string]bool)
	}
	if err := s.ensureCollection(ctx, s.collection); err != nil {
		return err
	}
	s.created[s.collection] = true
	return nil
}

// ensureCollection creates the named collection only when Qdrant does
// not already have it.
func (s *QdrantStore) ensureCollection(ctx context.Context, name string) error {
	url := fmt.Sprintf("%s/collections/%s", s.url, name)
	status, err := s.doStatus(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("qdrant GET %s: status %d", url, status)
	}
	return s.createCollection(ctx, name)
}

func (s *QdrantStore) createCollection(ctx context.Context, name string) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": "Cosine",
		},
	}
	url := fmt.Sprintf("%s/collections/%s", s.url, name)
	status, err := s.doStatus(ctx, http.MethodPut, url, body, nil)
	if err != nil {
		return err
	}
	// 409 means another writer created it between the existence check
	// and the PUT.
	if status >= 300 && status != http.StatusConflict {
		return fmt.Errorf("qdrant PUT %s: status %d", url, status)
	}
	return nil
}

func (s *QdrantStore) deleteCollection(ctx context.Context, name string) error {
	url := fmt.Sprintf("%s/collections/%s", s.url, name)
	status, err := s.doStatus(ctx, http.MethodDelete, url, nil, nil)
	if err != nil {
		return err
	}
	if status >= 300 && status != http.StatusNotFound {
		return fmt.Errorf("qdrant DELETE %s: status %d", url, status)
	}
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, namespace string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	name := s.collectionName(namespace)
	if !s.created[name] {
		if err := s.ensureCollection(ctx, name); err != nil {
			return err
		}
		s.created[name] = true
	}
	qpoints := make([]map[string]any, len(points))
	for i, p := range points {
		payload := map[string]any{"id": p.ID}
		for k, v := range p.Metadata {
			payload[k] = v
		}
		qpoints[i] = map[string]any{
			"id":      uuid.NewSHA1(uuid.NameSpaceOID, []byte(p.ID)).String(),
			"vector":  p.Vector,
			"payload": payload,
		}
	}
	body := map[string]any{"points": qpoints}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, name)
	return s.do(ctx, http.MethodPut, url, body, nil)
}

func (s *QdrantStore) Search(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 6
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collectionName(namespace))
	if err := s.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		m := Match{Score: r.Score, Metadata: make(map[string]string, len(r.Payload))}
		for k, v := range r.Payload {
			str, ok := v.(string)
			if !ok {
				continue
			}
			if k == "id" {
				m.ID = str
				continue
			}
			m.Metadata[k] = str
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *QdrantStore) Clear(ctx context.Context, namespace string) error {
	name := s.collectionName(namespace)
	if err := s.deleteCollection(ctx, name); err != nil {
		return err
	}
	delete(s.created, name)
	return nil
}

func (s *QdrantStore) authorize(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}

// do issues a request and treats any non-2xx status as an error.
func (s *QdrantStore) do(ctx context.Context, method, url string, body any, out any) error {
	status, err := s.doStatus(ctx, method, url, body, out)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant %s %s: status %d", method, url, status)
	}
	return nil
}

// doStatus issues a request and returns the HTTP status, erroring only
// on transport or decoding failures so callers can branch on status.
func (s *QdrantStore) doStatus(ctx context.Context, method, url string, body any, out any) (int, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
