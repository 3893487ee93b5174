// Package index holds the read-only nearest-neighbor index over the support
// corpus. The index is exact (brute-force squared-L2 over every stored
// vector), built offline by the ingest job and loaded once at startup;
// nothing mutates it at query time, so it is safe for concurrent searches.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/Vanshika218/customer-support-bot/internal/utils"
)

// NoNeighbor is the position returned for result slots that have no neighbor,
// i.e. when fewer than k vectors are stored.
const NoNeighbor = -1

// Flat pairs every stored vector with the text of the corpus chunk it was
// computed from. Position N in the vector list always corresponds to chunk N;
// the two are stored together precisely so the pairing cannot drift.
type Flat struct {
	dim     int
	vectors [][]float32
	chunks  []string
}

// NewFlat creates an empty index for vectors of the given dimensionality.
func NewFlat(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Empty returns an index with no stored vectors. Every search comes back
// padded with sentinels, so retrieval degrades to an empty context.
func Empty() *Flat {
	return &Flat{}
}

// Add appends a vector and its chunk text at the next position.
func (f *Flat) Add(vec []float32, chunk string) error {
	if len(vec) != f.dim {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vec), f.dim)
	}
	f.vectors = append(f.vectors, vec)
	f.chunks = append(f.chunks, chunk)
	return nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Dim returns the index dimensionality.
func (f *Flat) Dim() int { return f.dim }

// Search returns the k nearest stored vectors to query by squared Euclidean
// distance, closest first. Both returned slices always have length k; slots
// beyond the number of stored vectors are padded with +Inf distance and the
// NoNeighbor position sentinel.
func (f *Flat) Search(query []float32, k int) ([]float32, []int) {
	if k <= 0 {
		return nil, nil
	}

	type scored struct {
		pos  int
		dist float32
	}
	candidates := make([]scored, 0, len(f.vectors))
	for pos, vec := range f.vectors {
		d, err := utils.SquaredL2(query, vec)
		if err != nil {
			continue
		}
		candidates = append(candidates, scored{pos: pos, dist: d})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	distances := make([]float32, k)
	positions := make([]int, k)
	for i := 0; i < k; i++ {
		if i < len(candidates) {
			distances[i] = candidates[i].dist
			positions[i] = candidates[i].pos
		} else {
			distances[i] = float32(math.Inf(1))
			positions[i] = NoNeighbor
		}
	}
	return distances, positions
}

// ChunkText maps a neighbor position back to its chunk text. Sentinel and
// out-of-range positions report ok=false.
func (f *Flat) ChunkText(position int) (string, bool) {
	if position < 0 || position >= len(f.chunks) {
		return "", false
	}
	return f.chunks[position], true
}
