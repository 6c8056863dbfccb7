package tensor

import (
	"fmt"
	"math"

	"github.com/born-ml/secondorder/internal/parallel"
	"gonum.org/v1/gonum/floats"
)

// kernelConfig splits element-wise kernels across goroutines only for large
// buffers; results do not depend on the split.
var kernelConfig = parallel.Config{
	Enabled:      parallel.DefaultConfig().Enabled,
	NumWorkers:   parallel.DefaultConfig().NumWorkers,
	MinChunkSize: 1 << 14,
}

func mustMatch(op string, a, b *Dense) {
	if !a.shape.Equal(b.shape) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.shape, b.shape))
	}
}

func like(a *Dense) *Dense {
	return &Dense{
		shape:  a.shape.Clone(),
		stride: append([]int(nil), a.stride...),
		data:   make([]float64, len(a.data)),
	}
}

// Add returns a + b element-wise.
func Add(a, b *Dense) *Dense {
	mustMatch("Add", a, b)
	out := like(a)
	floats.AddTo(out.data, a.data, b.data)
	return out
}

// Sub returns a - b element-wise.
func Sub(a, b *Dense) *Dense {
	mustMatch("Sub", a, b)
	out := like(a)
	floats.SubTo(out.data, a.data, b.data)
	return out
}

// Mul returns a * b element-wise.
func Mul(a, b *Dense) *Dense {
	mustMatch("Mul", a, b)
	out := like(a)
	floats.MulTo(out.data, a.data, b.data)
	return out
}

// Scale returns c * a.
func Scale(a *Dense, c float64) *Dense {
	out := like(a)
	floats.ScaleTo(out.data, c, a.data)
	return out
}

// ScaleInPlace multiplies a by c and returns a.
func ScaleInPlace(a *Dense, c float64) *Dense {
	floats.Scale(c, a.data)
	return a
}

// Sum returns the sum of all elements.
func Sum(a *Dense) float64 {
	return floats.Sum(a.data)
}

// Map applies f to every element.
func Map(a *Dense, f func(float64) float64) *Dense {
	out := like(a)
	src, dst := a.data, out.data
	parallel.For(len(src), func(i int) {
		dst[i] = f(src[i])
	}, kernelConfig)
	return out
}

// Sigmoid returns σ(x) = 1 / (1 + exp(-x)) element-wise, evaluated without
// overflow for large |x|.
func Sigmoid(a *Dense) *Dense {
	return Map(a, sigmoid)
}

// LogSigmoid returns log σ(x) element-wise.
func LogSigmoid(a *Dense) *Dense {
	return Map(a, logSigmoid)
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func logSigmoid(x float64) float64 {
	if x >= 0 {
		return -math.Log1p(math.Exp(-x))
	}
	return x - math.Log1p(math.Exp(x))
}

// SoftmaxRows applies softmax over the last axis of a 2-D tensor.
func SoftmaxRows(a *Dense) *Dense {
	out := LogSoftmaxRows(a)
	for i, v := range out.data {
		out.data[i] = math.Exp(v)
	}
	return out
}

// LogSoftmaxRows applies log-softmax over the last axis of a 2-D tensor
// using the log-sum-exp trick.
func LogSoftmaxRows(a *Dense) *Dense {
	if a.Dim() != 2 {
		panic(fmt.Sprintf("LogSoftmaxRows: expected 2-D tensor, got shape %v", a.shape))
	}
	out := like(a)
	rows, width := a.shape[0], a.shape[1]
	parallel.ForRows(rows, width, func(_, start, end int) {
		src, dst := a.data[start:end], out.data[start:end]
		maxVal := floats.Max(src)
		var sumExp float64
		for _, v := range src {
			sumExp += math.Exp(v - maxVal)
		}
		lse := maxVal + math.Log(sumExp)
		for i, v := range src {
			dst[i] = v - lse
		}
	}, kernelConfig)
	return out
}
