package autodiff

import (
	"github.com/born-ml/secondorder/internal/tensor"
)

// Recorder evaluates tensor operations and records them on its tape.
// Tensors that were never produced by a recorded operation act as leaves.
type Recorder struct {
	tape *GradientTape
}

// New creates a Recorder with a fresh tape.
func New() *Recorder {
	return &Recorder{tape: NewGradientTape()}
}

// Tape returns the gradient tape for manual control.
func (r *Recorder) Tape() *GradientTape {
	return r.tape
}

// Add performs element-wise addition and records the operation.
func (r *Recorder) Add(a, b *tensor.Dense) *tensor.Dense {
	out := tensor.Add(a, b)
	r.tape.Record(&AddOp{binaryOp{a, b, out}})
	return out
}

// Sub performs element-wise subtraction and records the operation.
func (r *Recorder) Sub(a, b *tensor.Dense) *tensor.Dense {
	out := tensor.Sub(a, b)
	r.tape.Record(&SubOp{binaryOp{a, b, out}})
	return out
}

// Mul performs element-wise multiplication and records the operation.
func (r *Recorder) Mul(a, b *tensor.Dense) *tensor.Dense {
	out := tensor.Mul(a, b)
	r.tape.Record(&MulOp{binaryOp{a, b, out}})
	return out
}

// Scale multiplies by a constant and records the operation.
func (r *Recorder) Scale(a *tensor.Dense, c float64) *tensor.Dense {
	out := tensor.Scale(a, c)
	r.tape.Record(&ScaleOp{unaryOp{a, out}, c})
	return out
}

// Neg returns -a.
func (r *Recorder) Neg(a *tensor.Dense) *tensor.Dense {
	return r.Scale(a, -1)
}

// Sum reduces a to a scalar tensor and records the operation.
func (r *Recorder) Sum(a *tensor.Dense) *tensor.Dense {
	out := tensor.MustZeros(tensor.Shape{})
	out.Data()[0] = tensor.Sum(a)
	r.tape.Record(&SumOp{unaryOp{a, out}})
	return out
}

// LogSigmoid computes log σ(a) and records the operation.
func (r *Recorder) LogSigmoid(a *tensor.Dense) *tensor.Dense {
	out := tensor.LogSigmoid(a)
	r.tape.Record(&LogSigmoidOp{unaryOp{a, out}})
	return out
}

// LogSoftmaxRows computes row-wise log-softmax and records the operation.
func (r *Recorder) LogSoftmaxRows(a *tensor.Dense) *tensor.Dense {
	out := tensor.LogSoftmaxRows(a)
	r.tape.Record(&LogSoftmaxOp{unaryOp{a, out}})
	return out
}
