package derivatives

import (
	"math"

	"github.com/born-ml/secondorder/internal/autodiff"
	"github.com/born-ml/secondorder/internal/nn"
	"github.com/born-ml/secondorder/internal/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// BCEWithLogits is the adapter for nn.BCEWithLogitsLoss.
//
// The loss -Σ[y·log σ(x) + (1-y)·log(1-σ(x))] is the negative log-likelihood
// of independent Binomial(1, σ(x)) trials observing y, so sampling from those
// trials reproduces the Hessian diag(σ(x)(1-σ(x))).
//
// Only binary targets, unweighted mean reduction and 2-D inputs are supported.
type BCEWithLogits struct{}

// NewBCEWithLogits creates the adapter.
func NewBCEWithLogits() *BCEWithLogits {
	return &BCEWithLogits{}
}

// VerifySupport checks, in order: binary targets; no weight, mean reduction,
// no pos_weight; 2-D input.
func (a *BCEWithLogits) VerifySupport(snap *nn.Snapshot) error {
	loss, err := lossAs[*nn.BCEWithLogitsLoss](snap, "BCEWithLogits")
	if err != nil {
		return err
	}
	if !snap.Input().Shape().Equal(snap.Target().Shape()) {
		return precondition("input shape %v does not match target shape %v",
			snap.Input().Shape(), snap.Target().Shape())
	}

	if err := a.checkBinary(loss, snap.Target()); err != nil {
		return err
	}
	if err := a.checkIsDefault(loss); err != nil {
		return err
	}
	return a.checkInputDims(loss, snap.Input())
}

func (a *BCEWithLogits) checkBinary(loss nn.Loss, target *tensor.Dense) error {
	for i, y := range target.Data() {
		if y != 0 && y != 1 {
			return unsupported(loss, ConstraintBinaryTargets,
				"only binary targets (0 and 1) are supported, found %v at flat index %d", y, i)
		}
	}
	return nil
}

func (a *BCEWithLogits) checkIsDefault(loss *nn.BCEWithLogitsLoss) error {
	if loss.Weight != nil {
		return unsupported(loss, ConstraintWeight, "only nil weight is supported")
	}
	if loss.Reduction != nn.ReductionMean {
		return unsupported(loss, ConstraintReduction, "only mean reduction is supported, got %q", loss.Reduction)
	}
	if loss.PosWeight != nil {
		return unsupported(loss, ConstraintPosWeight, "only nil pos_weight is supported")
	}
	return nil
}

func (a *BCEWithLogits) checkInputDims(loss nn.Loss, input *tensor.Dense) error {
	if input.Dim() != 2 {
		return unsupported(loss, ConstraintInputRank, "only 2-D inputs are supported, got shape %v", input.Shape())
	}
	return nil
}

// MakeDistribution returns independent Binomial(1, σ(x)) trials.
func (a *BCEWithLogits) MakeDistribution(input *tensor.Dense) Distribution {
	return &binomialTrials{probs: tensor.Sigmoid(input)}
}

// MeanNormalization returns the batch size of the full input.
func (a *BCEWithLogits) MeanNormalization(input *tensor.Dense) int {
	return input.Shape()[0]
}

// ExactFactors returns one factor per feature d holding sqrt(σ(1-σ)) in
// column d.
func (a *BCEWithLogits) ExactFactors(input *tensor.Dense) []*tensor.Dense {
	probs := tensor.Sigmoid(input)
	rows, features := input.Shape()[0], input.RowSize()

	factors := make([]*tensor.Dense, features)
	for d := range factors {
		f := tensor.MustZeros(input.Shape())
		for n := 0; n < rows; n++ {
			p := probs.Row(n)[d]
			f.Row(n)[d] = math.Sqrt(p * (1 - p))
		}
		factors[d] = f
	}
	return factors
}

// binomialTrials is one Binomial(1, p) per element.
type binomialTrials struct {
	probs *tensor.Dense
}

func (b *binomialTrials) Sample(src rand.Source) *tensor.Dense {
	out := tensor.MustZeros(b.probs.Shape())
	dst := out.Data()
	for i, p := range b.probs.Data() {
		dst[i] = distuv.Binomial{N: 1, P: p, Src: src}.Rand()
	}
	return out
}

// NLLGrad returns σ(x) - y.
func (b *binomialTrials) NLLGrad(sample *tensor.Dense) *tensor.Dense {
	return tensor.Sub(b.probs, sample)
}

// RecordNLL records -Σ[y·log σ(x) + (1-y)·log σ(-x)].
func (b *binomialTrials) RecordNLL(rec *autodiff.Recorder, input, sample *tensor.Dense) *tensor.Dense {
	complement := tensor.Map(sample, func(y float64) float64 { return 1 - y })
	pos := rec.Mul(sample, rec.LogSigmoid(input))
	neg := rec.Mul(complement, rec.LogSigmoid(rec.Neg(input)))
	return rec.Neg(rec.Sum(rec.Add(pos, neg)))
}
