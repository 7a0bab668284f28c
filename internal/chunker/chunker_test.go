package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/wikidoc/internal/doctree"
)

func section(title string, depth int, text string) *doctree.Section {
	s := &doctree.Section{Title: title, Depth: depth}
	if text != "" {
		s.Paragraphs = []doctree.Paragraph{{Sentences: []doctree.Sentence{{Text: text}}}}
	}
	return s
}

func document(sections ...*doctree.Section) *doctree.Document {
	return doctree.NewDocument("", "Doc", sections, nil, nil)
}

func TestChunkDocument_SmallDocFitsOneChunk(t *testing.T) {
	doc := document(section("Section", 0, strings.Repeat("word ", 200)))

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     50,
	}
	chunks := ChunkDocument(doc, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].Title != "Doc" {
		t.Errorf("expected title %q, got %q", "Doc", chunks[0].Title)
	}
	if !strings.Contains(chunks[0].Text, "word") {
		t.Errorf("expected chunk text to contain 'word', got %q", chunks[0].Text)
	}
	if chunks[0].Tokens != EstimateTokens(chunks[0].Text) {
		t.Errorf("expected token count %d, got %d", EstimateTokens(chunks[0].Text), chunks[0].Tokens)
	}
}

func TestChunkDocument_LargeSectionRequiresSplitting(t *testing.T) {
	// ~2700 words -> ~3600 tokens at 1.33 tokens/word.
	largeText := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)
	doc := document(section("Big Section", 0, largeText))

	cfg := Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MinChunk:     10,
	}
	chunks := ChunkDocument(doc, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		// Sentence boundaries allow slight overflows.
		if tokens := EstimateTokens(c.Text); tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.ChunkSize)
		}
	}
}

func TestChunkDocument_BreadcrumbFollowsDepth(t *testing.T) {
	doc := document(
		section("", 0, strings.Repeat("lead ", 50)),
		section("Chapter 1", 0, ""),
		section("Section 1.1", 1, strings.Repeat("content ", 50)),
		section("Section 1.1.1", 2, strings.Repeat("deep ", 50)),
		section("Section 1.2", 1, strings.Repeat("more ", 50)),
		section("Chapter 2", 0, strings.Repeat("other ", 50)),
	)
	cfg := Config{ChunkSize: 2000, ChunkOverlap: 100, MinChunk: 10}
	chunks := ChunkDocument(doc, cfg)

	want := [][]string{
		nil,
		{"Chapter 1", "Section 1.1"},
		{"Chapter 1", "Section 1.1", "Section 1.1.1"},
		{"Chapter 1", "Section 1.2"},
		{"Chapter 2"},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		bc := chunks[i].Breadcrumb
		if strings.Join(bc, "/") != strings.Join(w, "/") {
			t.Errorf("chunk %d: expected breadcrumb %v, got %v", i, w, bc)
		}
	}
}

func TestChunkDocument_BreadcrumbIsolation(t *testing.T) {
	doc := document(
		section("A", 0, strings.Repeat("alpha ", 200)),
		section("B", 0, strings.Repeat("beta ", 200)),
	)
	cfg := Config{ChunkSize: 2000, ChunkOverlap: 100, MinChunk: 10}
	chunks := ChunkDocument(doc, cfg)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Breadcrumb) != 1 || chunks[0].Breadcrumb[0] != "A" {
		t.Errorf("chunk 0 breadcrumb: expected [A], got %v", chunks[0].Breadcrumb)
	}
	if len(chunks[1].Breadcrumb) != 1 || chunks[1].Breadcrumb[0] != "B" {
		t.Errorf("chunk 1 breadcrumb: expected [B], got %v", chunks[1].Breadcrumb)
	}
}

func TestChunkDocument_MinChunkFiltering(t *testing.T) {
	doc := document(section("Short", 0, "Hi"))
	cfg := Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 100}
	if chunks := ChunkDocument(doc, cfg); len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinChunk), got %d", len(chunks))
	}
}

func TestChunkDocument_EmptyAndRedirect(t *testing.T) {
	if chunks := ChunkDocument(document(), DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
	redirect := doctree.NewRedirect("#REDIRECT [[X]]", "", doctree.Link{Page: "X"}, nil)
	if chunks := ChunkDocument(redirect, DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for a redirect, got %d", len(chunks))
	}
}

func TestChunkDocument_DefaultConfigFallback(t *testing.T) {
	doc := document(section("", 0, strings.Repeat("word ", 200)))
	// Zero-value config is replaced with defaults.
	if chunks := ChunkDocument(doc, Config{}); len(chunks) < 1 {
		t.Errorf("expected at least 1 chunk with zero config (defaults applied), got %d", len(chunks))
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"one two three", 3},
		{strings.Repeat("w ", 100), 133},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%.20q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
