// Package ingest turns the corpus directory into a searchable index artifact.
package ingest

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/Vanshika218/customer-support-bot/internal/config"
)

// separators are tried in order when a piece is still too large. The empty
// string splits by character and always terminates the recursion.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts a document into overlapping chunks.
type Splitter interface {
	Split(text string) ([]string, error)
}

// NewSplitter builds the configured splitter implementation.
func NewSplitter(cfg config.SplitterConfig) (Splitter, error) {
	switch cfg.Provider {
	case "", "character":
		return &characterSplitter{size: cfg.ChunkSize, overlap: cfg.ChunkOverlap}, nil
	case "token":
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("failed to load token encoding: %w", err)
		}
		return &tokenSplitter{enc: enc, size: cfg.ChunkSize, overlap: cfg.ChunkOverlap}, nil
	default:
		return nil, fmt.Errorf("unknown splitter provider %q", cfg.Provider)
	}
}

// characterSplitter measures chunk size in runes and recursively splits on
// paragraph, line and word boundaries before falling back to raw characters.
type characterSplitter struct {
	size    int
	overlap int
}

func (s *characterSplitter) Split(text string) ([]string, error) {
	if s.size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", s.size)
	}
	pieces := splitRecursive(text, s.size, separators)
	return mergeWithOverlap(pieces, s.size, s.overlap), nil
}

// splitRecursive cuts text into pieces no larger than size runes, preferring
// the earliest separator that produces progress.
func splitRecursive(text string, size int, seps []string) []string {
	if len([]rune(text)) <= size {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	sep := seps[len(seps)-1]
	rest := seps
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	var parts []string
	if sep == "" {
		runes := []rune(text)
		for start := 0; start < len(runes); start += size {
			end := start + size
			if end > len(runes) {
				end = len(runes)
			}
			parts = append(parts, string(runes[start:end]))
		}
	} else {
		parts = strings.Split(text, sep)
	}

	var out []string
	for _, part := range parts {
		if len([]rune(part)) > size {
			out = append(out, splitRecursive(part, size, rest)...)
		} else if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

// mergeWithOverlap greedily packs pieces into chunks up to size runes,
// carrying the tail of each chunk into the next for continuity.
func mergeWithOverlap(pieces []string, size, overlap int) []string {
	var chunks []string
	var current []rune

	flush := func() {
		text := strings.TrimSpace(string(current))
		if text != "" {
			chunks = append(chunks, text)
		}
		if overlap > 0 && len(current) > overlap {
			current = append([]rune(nil), current[len(current)-overlap:]...)
		} else {
			current = nil
		}
	}

	for _, piece := range pieces {
		runes := []rune(piece)
		if len(current) > 0 && len(current)+1+len(runes) > size {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, runes...)
	}
	if strings.TrimSpace(string(current)) != "" {
		chunks = append(chunks, strings.TrimSpace(string(current)))
	}
	return chunks
}

// tokenSplitter measures chunk size in cl100k_base tokens and slides a
// fixed-size window over the token stream.
type tokenSplitter struct {
	enc     *tiktoken.Tiktoken
	size    int
	overlap int
}

func (s *tokenSplitter) Split(text string) ([]string, error) {
	if s.size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", s.size)
	}
	tokens := s.enc.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := s.size - s.overlap
	if step <= 0 {
		step = s.size
	}

	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + s.size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := strings.TrimSpace(s.enc.Decode(tokens[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(tokens) {
			break
		}
	}
	return chunks, nil
}
