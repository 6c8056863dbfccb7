// Package autodiff implements reverse-mode automatic differentiation over
// dense tensors.
//
// A Recorder computes each operation with the tensor kernels and records it
// on a GradientTape; the tape then walks the recorded operations backwards.
// Only the operations needed to express negative log-likelihoods of the
// supported distributions are provided.
//
// Usage:
//
//	rec := autodiff.New()
//	rec.Tape().StartRecording()
//	y := rec.Sum(rec.Mul(x, x)) // y = Σ x²
//	grad, _ := rec.Tape().Gradient(y, x) // 2x
package autodiff

import (
	"math"

	"github.com/born-ml/secondorder/internal/tensor"
)

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	Backward(outputGrad *tensor.Dense) []*tensor.Dense

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.Dense

	// Output returns the output tensor produced by this operation.
	Output() *tensor.Dense
}

type binaryOp struct {
	a, b, output *tensor.Dense
}

func (op *binaryOp) Inputs() []*tensor.Dense { return []*tensor.Dense{op.a, op.b} }
func (op *binaryOp) Output() *tensor.Dense   { return op.output }

type unaryOp struct {
	input, output *tensor.Dense
}

func (op *unaryOp) Inputs() []*tensor.Dense { return []*tensor.Dense{op.input} }
func (op *unaryOp) Output() *tensor.Dense   { return op.output }

// AddOp: d(a+b)/da = 1, d(a+b)/db = 1.
type AddOp struct{ binaryOp }

// Backward implements Operation.
func (op *AddOp) Backward(g *tensor.Dense) []*tensor.Dense {
	return []*tensor.Dense{g, g}
}

// SubOp: d(a-b)/da = 1, d(a-b)/db = -1.
type SubOp struct{ binaryOp }

// Backward implements Operation.
func (op *SubOp) Backward(g *tensor.Dense) []*tensor.Dense {
	return []*tensor.Dense{g, tensor.Scale(g, -1)}
}

// MulOp: d(a*b)/da = b, d(a*b)/db = a.
type MulOp struct{ binaryOp }

// Backward implements Operation.
func (op *MulOp) Backward(g *tensor.Dense) []*tensor.Dense {
	return []*tensor.Dense{tensor.Mul(g, op.b), tensor.Mul(g, op.a)}
}

// ScaleOp multiplies by a constant.
type ScaleOp struct {
	unaryOp
	factor float64
}

// Backward implements Operation.
func (op *ScaleOp) Backward(g *tensor.Dense) []*tensor.Dense {
	return []*tensor.Dense{tensor.Scale(g, op.factor)}
}

// SumOp reduces all elements to a scalar.
type SumOp struct{ unaryOp }

// Backward broadcasts the scalar gradient back to the input shape.
func (op *SumOp) Backward(g *tensor.Dense) []*tensor.Dense {
	grad, err := tensor.Full(op.input.Shape(), g.Data()[0])
	if err != nil {
		panic(err)
	}
	return []*tensor.Dense{grad}
}

// LogSigmoidOp: d log σ(x)/dx = 1 - σ(x) = σ(-x).
type LogSigmoidOp struct{ unaryOp }

// Backward implements Operation.
func (op *LogSigmoidOp) Backward(g *tensor.Dense) []*tensor.Dense {
	return []*tensor.Dense{tensor.Mul(g, tensor.Sigmoid(tensor.Scale(op.input, -1)))}
}

// LogSoftmaxOp applies log-softmax along the rows of a 2-D tensor.
//
// Backward:
//
//	∂L/∂x[i,j] = g[i,j] - softmax(x)[i,j] * Σ_k g[i,k]
type LogSoftmaxOp struct{ unaryOp }

// Backward implements Operation.
func (op *LogSoftmaxOp) Backward(g *tensor.Dense) []*tensor.Dense {
	grad := g.Clone()
	rows := op.output.Shape()[0]
	for r := 0; r < rows; r++ {
		gRow, yRow, dst := g.Row(r), op.output.Row(r), grad.Row(r)
		var total float64
		for _, v := range gRow {
			total += v
		}
		for j := range dst {
			dst[j] -= math.Exp(yRow[j]) * total
		}
	}
	return []*tensor.Dense{grad}
}
