package derivatives_test

import (
	"math"
	"testing"

	"github.com/born-ml/secondorder/internal/nn"
	"github.com/born-ml/secondorder/internal/tensor"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// countingSource counts draws so tests can assert that no sampling happened.
type countingSource struct {
	rand.Source
	draws int
}

func newCountingSource(seed uint64) *countingSource {
	return &countingSource{Source: rand.NewSource(seed)}
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.Source.Uint64()
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func rows(t *testing.T, data [][]float64) *tensor.Dense {
	t.Helper()
	d, err := tensor.FromRows(data)
	require.NoError(t, err)
	return d
}

func dense(t *testing.T, data []float64, shape tensor.Shape) *tensor.Dense {
	t.Helper()
	d, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return d
}

func snapshot(t *testing.T, loss nn.Loss, input, target *tensor.Dense) *nn.Snapshot {
	t.Helper()
	snap, err := nn.NewSnapshot(loss, input, target)
	require.NoError(t, err)
	return snap
}

// logits returns a deterministic [n, d] input spread over (-2, 2).
func logits(t *testing.T, n, d int) *tensor.Dense {
	t.Helper()
	data := make([]float64, n*d)
	for i := range data {
		data[i] = 2 * math.Sin(1.7*float64(i)+0.3)
	}
	return dense(t, data, tensor.Shape{n, d})
}

// binaryTargets returns a deterministic 0/1 tensor of the given shape.
func binaryTargets(t *testing.T, shape tensor.Shape) *tensor.Dense {
	t.Helper()
	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = float64(i % 2)
	}
	return dense(t, data, shape)
}
