package derivatives

import (
	"math"

	"github.com/born-ml/secondorder/internal/autodiff"
	"github.com/born-ml/secondorder/internal/nn"
	"github.com/born-ml/secondorder/internal/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// CrossEntropy is the adapter for nn.CrossEntropyLoss: the NLL of a
// Categorical(softmax(x)) per row. The per-example Hessian is
// diag(p) - ppᵀ.
type CrossEntropy struct{}

// NewCrossEntropy creates the adapter.
func NewCrossEntropy() *CrossEntropy {
	return &CrossEntropy{}
}

// VerifySupport rejects class weights, reductions other than mean or sum,
// ignore_index, label smoothing, non-2-D logits and non-index targets.
func (a *CrossEntropy) VerifySupport(snap *nn.Snapshot) error {
	loss, err := lossAs[*nn.CrossEntropyLoss](snap, "CrossEntropy")
	if err != nil {
		return err
	}

	switch {
	case loss.Weight != nil:
		return unsupported(loss, ConstraintWeight, "only nil weight is supported")
	case loss.Reduction != nn.ReductionMean && loss.Reduction != nn.ReductionSum:
		return unsupported(loss, ConstraintReduction, "only mean and sum reduction are supported, got %q", loss.Reduction)
	case loss.IgnoreIndex != nil:
		return unsupported(loss, ConstraintIgnoreIndex, "ignore_index is not supported")
	case loss.LabelSmoothing != 0:
		return unsupported(loss, ConstraintLabelSmoothing, "only label_smoothing = 0 is supported, got %v", loss.LabelSmoothing)
	}

	input, target := snap.Input(), snap.Target()
	if input.Dim() != 2 {
		return unsupported(loss, ConstraintInputRank, "only 2-D logits [N, C] are supported, got shape %v", input.Shape())
	}
	if target.Dim() != 1 {
		return unsupported(loss, ConstraintTargetShape, "only class-index targets of shape [N] are supported, got shape %v", target.Shape())
	}

	rows, classes := input.Shape()[0], input.Shape()[1]
	if target.Shape()[0] != rows {
		return precondition("target has %d entries for %d examples", target.Shape()[0], rows)
	}
	for i, y := range target.Data() {
		if y < 0 || y >= float64(classes) || y != math.Trunc(y) {
			return precondition("target %d is %v, want a class index in [0, %d)", i, y, classes)
		}
	}
	return nil
}

// MakeDistribution returns Categorical(softmax(x)) per row, sampled as
// one-hot rows.
func (a *CrossEntropy) MakeDistribution(input *tensor.Dense) Distribution {
	return &categoricalRows{probs: tensor.SoftmaxRows(input)}
}

// MeanNormalization returns the batch size of the full input.
func (a *CrossEntropy) MeanNormalization(input *tensor.Dense) int {
	return input.Shape()[0]
}

// ExactFactors returns, for every class c, rows sqrt(p_c)·(e_c - p), the
// columns of diag(√p) - p√pᵀ.
func (a *CrossEntropy) ExactFactors(input *tensor.Dense) []*tensor.Dense {
	probs := tensor.SoftmaxRows(input)
	rows, classes := input.Shape()[0], input.Shape()[1]

	factors := make([]*tensor.Dense, classes)
	for c := range factors {
		f := tensor.MustZeros(input.Shape())
		for n := 0; n < rows; n++ {
			p, dst := probs.Row(n), f.Row(n)
			sqrtPc := math.Sqrt(p[c])
			for k := range dst {
				dst[k] = -sqrtPc * p[k]
			}
			dst[c] += sqrtPc
		}
		factors[c] = f
	}
	return factors
}

type categoricalRows struct {
	probs *tensor.Dense
}

func (c *categoricalRows) Sample(src rand.Source) *tensor.Dense {
	out := tensor.MustZeros(c.probs.Shape())
	rows := c.probs.Shape()[0]
	for n := 0; n < rows; n++ {
		k := int(distuv.NewCategorical(c.probs.Row(n), src).Rand())
		out.Row(n)[k] = 1
	}
	return out
}

// NLLGrad returns softmax(x) - onehot.
func (c *categoricalRows) NLLGrad(sample *tensor.Dense) *tensor.Dense {
	return tensor.Sub(c.probs, sample)
}

// RecordNLL records -Σ onehot ⊙ log_softmax(x).
func (c *categoricalRows) RecordNLL(rec *autodiff.Recorder, input, sample *tensor.Dense) *tensor.Dense {
	return rec.Neg(rec.Sum(rec.Mul(sample, rec.LogSoftmaxRows(input))))
}
