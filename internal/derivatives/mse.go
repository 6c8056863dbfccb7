package derivatives

import (
	"math"

	"github.com/born-ml/secondorder/internal/autodiff"
	"github.com/born-ml/secondorder/internal/nn"
	"github.com/born-ml/secondorder/internal/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// mseStdDev makes (x-y)² the exact NLL of Normal(x, σ) up to a constant:
// (x-y)²/(2σ²) with σ² = 1/2.
var mseStdDev = math.Sqrt(0.5)

// MSE is the adapter for nn.MSELoss, read as the NLL of a unit-precision
// Gaussian. The per-element Hessian of the summed loss is 2.
type MSE struct{}

// NewMSE creates the adapter.
func NewMSE() *MSE {
	return &MSE{}
}

// VerifySupport requires a 2-D input, a target of the same shape and mean or
// sum reduction.
func (a *MSE) VerifySupport(snap *nn.Snapshot) error {
	loss, err := lossAs[*nn.MSELoss](snap, "MSE")
	if err != nil {
		return err
	}
	if !snap.Input().Shape().Equal(snap.Target().Shape()) {
		return precondition("input shape %v does not match target shape %v",
			snap.Input().Shape(), snap.Target().Shape())
	}
	if loss.Reduction != nn.ReductionMean && loss.Reduction != nn.ReductionSum {
		return unsupported(loss, ConstraintReduction, "only mean and sum reduction are supported, got %q", loss.Reduction)
	}
	if snap.Input().Dim() != 2 {
		return unsupported(loss, ConstraintInputRank, "only 2-D inputs are supported, got shape %v", snap.Input().Shape())
	}
	return nil
}

// MakeDistribution returns independent Normal(x, sqrt(1/2)) per element.
func (a *MSE) MakeDistribution(input *tensor.Dense) Distribution {
	return &gaussian{mean: input}
}

// MeanNormalization returns the number of elements of the full input, the
// divisor of an element-wise mean.
func (a *MSE) MeanNormalization(input *tensor.Dense) int {
	return input.NumElements()
}

// ExactFactors returns sqrt(2)·e_d for every feature d.
func (a *MSE) ExactFactors(input *tensor.Dense) []*tensor.Dense {
	rows, features := input.Shape()[0], input.RowSize()
	factors := make([]*tensor.Dense, features)
	for d := range factors {
		f := tensor.MustZeros(input.Shape())
		for n := 0; n < rows; n++ {
			f.Row(n)[d] = math.Sqrt2
		}
		factors[d] = f
	}
	return factors
}

type gaussian struct {
	mean *tensor.Dense
}

func (g *gaussian) Sample(src rand.Source) *tensor.Dense {
	out := tensor.MustZeros(g.mean.Shape())
	dst := out.Data()
	for i, mu := range g.mean.Data() {
		dst[i] = distuv.Normal{Mu: mu, Sigma: mseStdDev, Src: src}.Rand()
	}
	return out
}

// NLLGrad returns 2(x - y).
func (g *gaussian) NLLGrad(sample *tensor.Dense) *tensor.Dense {
	return tensor.ScaleInPlace(tensor.Sub(g.mean, sample), 2)
}

// RecordNLL records Σ(x - y)².
func (g *gaussian) RecordNLL(rec *autodiff.Recorder, input, sample *tensor.Dense) *tensor.Dense {
	diff := rec.Sub(input, sample)
	return rec.Sum(rec.Mul(diff, diff))
}
