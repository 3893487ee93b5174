package core

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Vanshika218/customer-support-bot/internal/utils"
)

// FAQEntry maps a canonical question to its canonical answer. The embedding
// is computed once at load and never changes.
type FAQEntry struct {
	Question  string
	Answer    string
	Embedding []float32
}

// FAQSet is the immutable, ordered collection of FAQ entries. Question text
// is case-folded and used as the key; a question seen again keeps its original
// position but takes the later answer. Precedence is therefore load order:
// last file wins.
type FAQSet struct {
	entries []FAQEntry
	byKey   map[string]int
}

// NewFAQSet builds an empty set.
func NewFAQSet() *FAQSet {
	return &FAQSet{byKey: make(map[string]int)}
}

// Put inserts or overwrites an entry under the case-folded question key.
func (s *FAQSet) Put(question, answer string) {
	key := strings.ToLower(strings.TrimSpace(question))
	if key == "" {
		return
	}
	if idx, ok := s.byKey[key]; ok {
		s.entries[idx].Answer = answer
		return
	}
	s.byKey[key] = len(s.entries)
	s.entries = append(s.entries, FAQEntry{Question: key, Answer: answer})
}

// Len returns the number of entries.
func (s *FAQSet) Len() int { return len(s.entries) }

// Entries returns the stored entries in insertion order.
func (s *FAQSet) Entries() []FAQEntry { return s.entries }

// LoadFAQFiles parses files in order into one set. Each file holds
// alternating "Q:" and "A:" lines; anything else is ignored. Missing files
// are skipped so a deployment can ship any subset of the sources.
func LoadFAQFiles(paths []string) (*FAQSet, error) {
	set := NewFAQSet()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warn().Str("path", path).Msg("FAQ file not found, skipping")
				continue
			}
			return nil, fmt.Errorf("failed to open FAQ file %s: %w", path, err)
		}

		var question string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case strings.HasPrefix(line, "Q:"):
				question = strings.TrimSpace(line[2:])
			case strings.HasPrefix(line, "A:"):
				answer := strings.TrimSpace(line[2:])
				if question != "" && answer != "" {
					set.Put(question, answer)
					question = ""
				}
			}
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read FAQ file %s: %w", path, err)
		}
	}
	return set, nil
}

// FAQMatcher answers queries whose embedding similarity to a stored question
// exceeds the threshold. It is pure: no state changes after construction.
type FAQMatcher struct {
	set       *FAQSet
	embedder  Embedder
	threshold float32
}

// NewFAQMatcher embeds every stored question and returns a ready matcher.
func NewFAQMatcher(ctx context.Context, set *FAQSet, embedder Embedder, threshold float32) (*FAQMatcher, error) {
	if set.Len() > 0 {
		questions := make([]string, set.Len())
		for i, e := range set.entries {
			questions[i] = e.Question
		}
		embeddings, err := embedder.EmbedBatch(ctx, questions)
		if err != nil {
			return nil, fmt.Errorf("failed to embed FAQ questions: %w", err)
		}
		if len(embeddings) != set.Len() {
			return nil, fmt.Errorf("embedder returned %d embeddings for %d questions", len(embeddings), set.Len())
		}
		for i := range set.entries {
			set.entries[i].Embedding = embeddings[i]
		}
	}
	return &FAQMatcher{set: set, embedder: embedder, threshold: threshold}, nil
}

// Match returns the answer of the most similar stored question when its
// cosine similarity strictly exceeds the threshold, or ok=false to let the
// pipeline proceed to retrieval. Ties go to the first stored entry.
func (m *FAQMatcher) Match(ctx context.Context, canonicalQuery string) (answer string, ok bool, err error) {
	if m.set.Len() == 0 {
		return "", false, nil
	}

	queryEmbedding, err := m.embedder.Embed(ctx, canonicalQuery)
	if err != nil {
		return "", false, fmt.Errorf("failed to embed query: %w", err)
	}

	scores := make([]float32, m.set.Len())
	for i, entry := range m.set.entries {
		sim, err := utils.CosineSimilarity(queryEmbedding, entry.Embedding)
		if err != nil {
			log.Warn().Err(err).Str("question", entry.Question).Msg("Skipping FAQ entry in similarity scan")
			continue
		}
		scores[i] = sim
	}

	best := utils.ArgMax(scores)
	if best < 0 || scores[best] <= m.threshold {
		return "", false, nil
	}
	log.Debug().Str("question", m.set.entries[best].Question).Float32("similarity", scores[best]).Msg("FAQ hit")
	return m.set.entries[best].Answer, true, nil
}
