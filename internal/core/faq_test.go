package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFAQFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFAQFiles(t *testing.T) {
	dir := t.TempDir()
	faq1 := writeFAQFile(t, dir, "faq1.txt", `
Q: What are your hours?
A: 9am-5pm

Q: Do you ship abroad?
A: Yes, worldwide.
`)
	faq2 := writeFAQFile(t, dir, "faq2.txt", `
Q: WHAT ARE YOUR HOURS?
A: 9am-6pm on weekdays
`)

	set, err := LoadFAQFiles([]string{faq1, faq2})
	require.NoError(t, err)

	// later files overwrite earlier ones under the case-folded key, keeping
	// the original position
	require.Equal(t, 2, set.Len())
	entries := set.Entries()
	assert.Equal(t, "what are your hours?", entries[0].Question)
	assert.Equal(t, "9am-6pm on weekdays", entries[0].Answer)
	assert.Equal(t, "do you ship abroad?", entries[1].Question)
}

func TestLoadFAQFilesSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	faq := writeFAQFile(t, dir, "faq.txt", "Q: hi\nA: hello\n")

	set, err := LoadFAQFiles([]string{filepath.Join(dir, "nope.txt"), faq})
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestFAQMatcherExactMatch(t *testing.T) {
	set := NewFAQSet()
	set.Put("what are your hours", "9am-5pm")

	embedder := newMockEmbedder(map[string][]float32{
		"what are your hours": {1, 0, 0},
	})
	matcher, err := NewFAQMatcher(context.Background(), set, embedder, 0.1)
	require.NoError(t, err)

	// identical embedding: similarity 1.0 > 0.1
	answer, ok, err := matcher.Match(context.Background(), "what are your hours")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "9am-5pm", answer)
}

func TestFAQMatcherBelowThresholdMisses(t *testing.T) {
	set := NewFAQSet()
	set.Put("what are your hours", "9am-5pm")

	embedder := newMockEmbedder(map[string][]float32{
		"what are your hours": {1, 0, 0},
		"unrelated question":  {0, 1, 0}, // orthogonal: similarity 0 <= 0.1
	})
	matcher, err := NewFAQMatcher(context.Background(), set, embedder, 0.1)
	require.NoError(t, err)

	_, ok, err := matcher.Match(context.Background(), "unrelated question")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFAQMatcherTieBreaksToFirstEntry(t *testing.T) {
	set := NewFAQSet()
	set.Put("first question", "first answer")
	set.Put("second question", "second answer")

	embedder := newMockEmbedder(map[string][]float32{
		"first question":  {1, 0, 0},
		"second question": {1, 0, 0},
		"the query":       {1, 0, 0},
	})
	matcher, err := NewFAQMatcher(context.Background(), set, embedder, 0.1)
	require.NoError(t, err)

	answer, ok, err := matcher.Match(context.Background(), "the query")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first answer", answer)
}

func TestFAQMatcherEmptySet(t *testing.T) {
	matcher, err := NewFAQMatcher(context.Background(), NewFAQSet(), newMockEmbedder(nil), 0.1)
	require.NoError(t, err)

	_, ok, err := matcher.Match(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFAQMatcherEmbedError(t *testing.T) {
	set := NewFAQSet()
	set.Put("q", "a")
	embedder := newMockEmbedder(map[string][]float32{"q": {1, 0, 0}})
	matcher, err := NewFAQMatcher(context.Background(), set, embedder, 0.1)
	require.NoError(t, err)

	embedder.err = assert.AnError
	_, _, err = matcher.Match(context.Background(), "q")
	assert.Error(t, err)
}
