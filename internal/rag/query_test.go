package rag

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ppiankov/sanket/internal/llm"
)

// fakeProvider records the prompt it was sent.
type fakeProvider struct {
	lastPrompt string
	answer     string
}

func (p *fakeProvider) Name() string                            { return "fake" }
func (p *fakeProvider) IsAvailable(context.Context) bool        { return true }
func (p *fakeProvider) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	p.lastPrompt = req.Prompt
	return &llm.GenerateResponse{Text: p.answer, Model: "fake-model"}, nil
}

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Init(ctx, 3, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	points := []Point{
		{ID: "row_0", Vector: []float32{1, 0, 0}, Metadata: map[string]string{
			"source_csv": "dgms_accidents.csv",
			"text":       "Date: 16-05-2015\nState: Assam",
		}},
		{ID: "row_1", Vector: []float32{0, 1, 0}, Metadata: map[string]string{
			"source_csv": "dgms_accidents.csv",
			"text":       "Date: 03/11/15\nState: Jharkhand",
		}},
	}
	if err := store.Upsert(ctx, "", points); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return store
}

func TestBuildPrompt(t *testing.T) {
	matches := []Match{
		{ID: "row_0", Metadata: map[string]string{
			"source_csv": "dgms_accidents.csv",
			"text":       "Date: 16-05-2015\nState: Assam",
		}},
	}
	prompt := BuildPrompt("How many accidents in Assam?", matches)

	if !strings.Contains(prompt, "[Source:dgms_accidents.csv id:row_0]") {
		t.Errorf("expected source tag in prompt, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Date: 16-05-2015") {
		t.Error("expected excerpt text in prompt")
	}
	if !strings.Contains(prompt, "Question: How many accidents in Assam?") {
		t.Error("expected question in prompt")
	}
	if !strings.Contains(prompt, "Not available in retrieved reports.") {
		t.Error("expected refusal instruction in prompt")
	}
}

func TestBuildPrompt_SnippetBounded(t *testing.T) {
	long := strings.Repeat("a", 3000)
	matches := []Match{{ID: "row_0", Metadata: map[string]string{"text": long}}}
	prompt := BuildPrompt("q", matches)
	if strings.Contains(prompt, strings.Repeat("a", 1501)) {
		t.Error("expected excerpt truncated to 1500 characters")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 1500)) {
		t.Error("expected 1500 characters of excerpt retained")
	}
}

func TestBuildPrompt_SnippetKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("खान", 600)
	matches := []Match{{ID: "row_0", Metadata: map[string]string{"text": long}}}
	prompt := BuildPrompt("q", matches)
	if !utf8.ValidString(prompt) {
		t.Error("prompt contains a split rune")
	}
}

func TestBuildPrompt_MetadataFallback(t *testing.T) {
	// Without a text payload the prompt is rebuilt from row fields.
	matches := []Match{{ID: "row_0", Metadata: map[string]string{
		"State": "Assam",
		"Mine":  "Ledo OCP",
	}}}
	prompt := BuildPrompt("q", matches)
	if !strings.Contains(prompt, "State: Assam") || !strings.Contains(prompt, "Mine: Ledo OCP") {
		t.Errorf("expected fallback excerpt from metadata, got:\n%s", prompt)
	}
}

func TestAnswerer_AskWithProvider(t *testing.T) {
	store := seededStore(t)
	provider := &fakeProvider{answer: "Two accidents were recorded."}
	answerer := NewAnswerer(&fakeEmbedder{}, store, provider, zerolog.Nop(), 6)

	ans, err := answerer.Ask(context.Background(), "", "How many accidents?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !ans.Generated {
		t.Error("expected generated answer")
	}
	if ans.Answer != "Two accidents were recorded." {
		t.Errorf("unexpected answer: %q", ans.Answer)
	}
	if ans.Model != "fake-model" {
		t.Errorf("unexpected model: %q", ans.Model)
	}
	if !strings.Contains(provider.lastPrompt, "Question: How many accidents?") {
		t.Error("expected question forwarded in prompt")
	}
	if len(ans.Matches) != 2 {
		t.Errorf("expected 2 matches attached, got %d", len(ans.Matches))
	}
}

func TestAnswerer_AskWithoutProvider(t *testing.T) {
	store := seededStore(t)
	answerer := NewAnswerer(&fakeEmbedder{}, store, nil, zerolog.Nop(), 6)

	ans, err := answerer.Ask(context.Background(), "", "How many accidents?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Generated {
		t.Error("expected non-generated fallback answer")
	}
	if len(ans.Matches) == 0 {
		t.Error("expected retrieval results in fallback answer")
	}
}

func TestAnswerer_EmptyQuestion(t *testing.T) {
	answerer := NewAnswerer(&fakeEmbedder{}, NewMemoryStore(), nil, zerolog.Nop(), 6)
	if _, err := answerer.Ask(context.Background(), "", "   "); err == nil {
		t.Error("expected error for empty question")
	}
}

func TestAnswerer_NoMatches(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Init(context.Background(), 3, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	provider := &fakeProvider{answer: "should not be called"}
	answerer := NewAnswerer(&fakeEmbedder{}, store, provider, zerolog.Nop(), 6)

	ans, err := answerer.Ask(context.Background(), "", "anything?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Answer != "Not available in retrieved reports." {
		t.Errorf("expected refusal answer for empty index, got %q", ans.Answer)
	}
	if provider.lastPrompt != "" {
		t.Error("expected provider not to be called with no matches")
	}
}

func TestAnswerer_WithTopK(t *testing.T) {
	store := seededStore(t)
	answerer := NewAnswerer(&fakeEmbedder{}, store, nil, zerolog.Nop(), 6)

	ans, err := answerer.WithTopK(1).Ask(context.Background(), "", "q")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(ans.Matches) != 1 {
		t.Errorf("expected 1 match at topK=1, got %d", len(ans.Matches))
	}

	// Non-positive values keep the original depth.
	if answerer.WithTopK(0) != answerer {
		t.Error("expected WithTopK(0) to return the same answerer")
	}
}
