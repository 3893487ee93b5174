package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float32
		want    float32
		wantErr bool
	}{
		{name: "identical vectors", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal vectors", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite vectors", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero magnitude", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "dimension mismatch", a: []float32{1, 2}, b: []float32{1, 2, 3}, wantErr: true},
		{name: "empty vector", a: nil, b: []float32{1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	d, err := SquaredL2([]float32{1, 2}, []float32{4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 25, d, 1e-6)

	d, err = SquaredL2([]float32{3, 3}, []float32{3, 3})
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = SquaredL2([]float32{1}, []float32{1, 2})
	require.Error(t, err)
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, -1, ArgMax(nil))
	assert.Equal(t, 2, ArgMax([]float32{0.1, 0.3, 0.9, 0.2}))
	// first maximal index wins on ties
	assert.Equal(t, 1, ArgMax([]float32{0.1, 0.5, 0.5}))
}
