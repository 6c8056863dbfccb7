package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/secondorder/internal/autodiff"
	"github.com/born-ml/secondorder/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

// checkGradient compares the tape gradient of a scalar function with central
// finite differences.
func checkGradient(t *testing.T, shape tensor.Shape, x0 []float64, build func(r *autodiff.Recorder, x *tensor.Dense) *tensor.Dense) {
	t.Helper()

	eval := func(vals []float64) float64 {
		x, err := tensor.FromSlice(vals, shape)
		require.NoError(t, err)
		return build(autodiff.New(), x).Data()[0]
	}
	numerical := fd.Gradient(nil, eval, x0, &fd.Settings{Formula: fd.Central})

	rec := autodiff.New()
	rec.Tape().StartRecording()
	x, err := tensor.FromSlice(x0, shape)
	require.NoError(t, err)
	y := build(rec, x)

	grad, err := rec.Tape().Gradient(y, x)
	require.NoError(t, err)
	require.Len(t, grad.Data(), len(x0))
	for i := range x0 {
		assert.InDelta(t, numerical[i], grad.Data()[i], 1e-5, "component %d", i)
	}
}

func TestTape_RecordingState(t *testing.T) {
	rec := autodiff.New()
	tape := rec.Tape()
	x, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2})

	rec.Mul(x, x)
	assert.Equal(t, 0, tape.NumOps(), "nothing is recorded before StartRecording")

	tape.StartRecording()
	assert.True(t, tape.IsRecording())
	y := rec.Sum(rec.Mul(x, x))
	assert.Equal(t, 2, tape.NumOps())

	_ = tape.Backward(y)
	assert.True(t, tape.IsRecording(), "backward restores the recording state")
	assert.Equal(t, 2, tape.NumOps(), "backward must not record its own work")

	tape.Clear()
	assert.Equal(t, 0, tape.NumOps())
	tape.StopRecording()
	assert.False(t, tape.IsRecording())
}

func TestTape_ReuseAfterClear(t *testing.T) {
	rec := autodiff.New()
	tape := rec.Tape()

	for _, v := range []float64{1, -2, 0.5} {
		tape.Clear()
		tape.StartRecording()
		x, _ := tensor.FromSlice([]float64{v, 2 * v}, tensor.Shape{2})
		y := rec.Sum(rec.Mul(x, x))
		tape.StopRecording()

		rec.Mul(x, x)
		assert.Equal(t, 2, tape.NumOps(), "stopped tape ignores further operations")

		grad, err := tape.Gradient(y, x)
		require.NoError(t, err)
		assert.Equal(t, []float64{2 * v, 4 * v}, grad.Data())
	}
}

func TestTape_SquareAccumulates(t *testing.T) {
	rec := autodiff.New()
	rec.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float64{3, -1}, tensor.Shape{2})
	y := rec.Sum(rec.Mul(x, x))

	grad, err := rec.Tape().Gradient(y, x)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, -2}, grad.Data())
}

func TestTape_GradientErrors(t *testing.T) {
	rec := autodiff.New()
	x, _ := tensor.FromSlice([]float64{1}, tensor.Shape{1})
	other, _ := tensor.FromSlice([]float64{1}, tensor.Shape{1})

	_, err := rec.Tape().Gradient(x, x)
	require.Error(t, err)

	rec.Tape().StartRecording()
	y := rec.Sum(x)
	_, err = rec.Tape().Gradient(y, other)
	require.Error(t, err)
}

func TestOps_NumericalGradients(t *testing.T) {
	shape := tensor.Shape{2, 3}
	x0 := []float64{0.3, -1.2, 2.0, 0.0, 4.5, -3.3}
	c, _ := tensor.FromSlice([]float64{1, 0, 1, 0.5, 2, -1}, shape)

	tests := []struct {
		name  string
		build func(r *autodiff.Recorder, x *tensor.Dense) *tensor.Dense
	}{
		{"add", func(r *autodiff.Recorder, x *tensor.Dense) *tensor.Dense {
			return r.Sum(r.Mul(r.Add(x, c), x))
		}},
		{"sub", func(r *autodiff.Recorder, x *tensor.Dense) *tensor.Dense {
			d := r.Sub(x, c)
			return r.Sum(r.Mul(d, d))
		}},
		{"scale", func(r *autodiff.Recorder, x *tensor.Dense) *tensor.Dense {
			return r.Sum(r.Mul(r.Scale(x, 2.5), c))
		}},
		{"log sigmoid", func(r *autodiff.Recorder, x *tensor.Dense) *tensor.Dense {
			return r.Neg(r.Sum(r.Mul(c, r.LogSigmoid(x))))
		}},
		{"log softmax", func(r *autodiff.Recorder, x *tensor.Dense) *tensor.Dense {
			return r.Sum(r.Mul(c, r.LogSoftmaxRows(x)))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradient(t, shape, x0, tt.build)
		})
	}
}

func TestLogSigmoid_GradientIsComplementOfSigmoid(t *testing.T) {
	rec := autodiff.New()
	rec.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float64{-30, 0, 30}, tensor.Shape{3})
	y := rec.Sum(rec.LogSigmoid(x))

	grad, err := rec.Tape().Gradient(y, x)
	require.NoError(t, err)
	for i, v := range x.Data() {
		assert.InDelta(t, 1/(1+math.Exp(v)), grad.Data()[i], 1e-15)
	}
}
