package rag

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ppiankov/sanket/internal/llm"
)

// Retrieval limits.
const (
	defaultTopK    = 6
	maxSnippetLen  = 1500
	promptTemplate = `You are given excerpts from mining accident reports. Answer the question using ONLY the information in the excerpts. If the answer is not present, reply exactly: Not available in retrieved reports.

Excerpts:
%s

Question: %s

Answer:`
)

// Answer is the outcome of one question.
type Answer struct {
	Answer    string  `json:"answer"`
	Model     string  `json:"model,omitempty"`
	Generated bool    `json:"generated"`
	Matches   []Match `json:"matches,omitempty"`
}

// Answerer retrieves similar rows for a question and, when a provider
// is configured, asks it to compose a grounded answer. With no
// provider it returns the raw retrieval results.
type Answerer struct {
	embedder Embedder
	store    VectorStore
	provider llm.Provider // may be nil
	logger   zerolog.Logger
	topK     int
}

// NewAnswerer creates an answerer. provider may be nil.
func NewAnswerer(embedder Embedder, store VectorStore, provider llm.Provider, logger zerolog.Logger, topK int) *Answerer {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Answerer{
		embedder: embedder,
		store:    store,
		provider: provider,
		logger:   logger,
		topK:     topK,
	}
}

// WithTopK returns a copy of the answerer that retrieves topK matches.
// Non-positive values leave the current depth unchanged.
func (a *Answerer) WithTopK(topK int) *Answerer {
	if topK <= 0 {
		return a
	}
	clone := *a
	clone.topK = topK
	return &clone
}

// Ask answers a question against the index.
func (a *Answerer) Ask(ctx context.Context, namespace, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	vector, err := a.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := a.store.Search(ctx, namespace, vector, a.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	a.logger.Debug().
		Int("matches", len(matches)).
		Str("question", question).
		Msg("retrieved context")

	if len(matches) == 0 {
		return &Answer{Answer: "Not available in retrieved reports.", Generated: false}, nil
	}

	if a.provider == nil {
		// No LLM configured. Return the retrieval results so callers
		// can still inspect what the index knows.
		return &Answer{
			Answer:    "LLM provider not configured; returning retrieved excerpts only.",
			Generated: false,
			Matches:   matches,
		}, nil
	}

	prompt := BuildPrompt(question, matches)
	resp, err := a.provider.Generate(ctx, llm.GenerateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Answer{
		Answer:    resp.Text,
		Model:     resp.Model,
		Generated: true,
		Matches:   matches,
	}, nil
}

// BuildPrompt assembles the grounded prompt from retrieval matches.
// Each excerpt is tagged with its source file and row identifier so
// the model can cite where a statement came from.
func BuildPrompt(question string, matches []Match) string {
	pieces := make([]string, 0, len(matches))
	for _, m := range matches {
		src := m.Metadata["source_csv"]
		if src == "" {
			src = "csv"
		}
		text := m.Metadata["text"]
		if text == "" {
			text = metadataFallbackText(m.Metadata)
		}
		pieces = append(pieces, fmt.Sprintf("[Source:%s id:%s]\n%s", src, m.ID, snippetOf(text, maxSnippetLen)))
	}
	return fmt.Sprintf(promptTemplate, strings.Join(pieces, "\n\n"), question)
}

// metadataFallbackText rebuilds a readable excerpt from row metadata
// when the stored text payload is missing.
func metadataFallbackText(md map[string]string) string {
	lines := make([]string, 0, len(md))
	for _, key := range []string{"Date", "Mine", "Time", "Owner", "District", "State", "Persons_Killed", "Description", "Precaution"} {
		if v := md[key]; v != "" {
			lines = append(lines, key+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// snippetOf truncates to at most max bytes without splitting a rune.
func snippetOf(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
