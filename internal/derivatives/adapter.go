package derivatives

import (
	"fmt"

	"github.com/born-ml/secondorder/internal/autodiff"
	"github.com/born-ml/secondorder/internal/nn"
	"github.com/born-ml/secondorder/internal/tensor"
	"golang.org/x/exp/rand"
)

// Adapter supplies the loss-specific pieces the Engine needs. Supporting a
// new negative log-likelihood loss means implementing Adapter; the Engine
// itself does not change.
type Adapter interface {
	// VerifySupport rejects configurations the sampling identity does not
	// cover. It runs before any sampling and fails with an
	// *UnsupportedError naming the first violated constraint, or with
	// ErrPrecondition on malformed state.
	VerifySupport(snap *nn.Snapshot) error

	// MakeDistribution builds the likelihood whose negative log is the loss,
	// parametrized by the (subsampled) raw input.
	MakeDistribution(input *tensor.Dense) Distribution

	// MeanNormalization returns the divisor a mean reduction applies to the
	// summed per-element NLL, computed on the full, unsubsampled input.
	MeanNormalization(input *tensor.Dense) int
}

// ExactSqrtHessian is implemented by adapters that know a closed-form
// factorization of the per-example Hessian.
type ExactSqrtHessian interface {
	// ExactFactors returns per-example factors: for every example n,
	// Σ_k S_k[n] S_k[n]ᵀ equals the Hessian of the summed NLL w.r.t. row n
	// of input, before normalization.
	ExactFactors(input *tensor.Dense) []*tensor.Dense
}

// Distribution is a per-element likelihood built from a raw input. It is
// created for one derivative request and discarded after sampling.
type Distribution interface {
	// Sample draws one realization with the shape of the raw input.
	Sample(src rand.Source) *tensor.Dense

	// RecordNLL records -log p(sample | input) on rec as a scalar tensor, so
	// the tape can differentiate it w.r.t. input.
	RecordNLL(rec *autodiff.Recorder, input, sample *tensor.Dense) *tensor.Dense
}

// ScoreFunction is implemented by distributions with a closed-form gradient
// of the negative log-likelihood w.r.t. the raw input.
type ScoreFunction interface {
	NLLGrad(sample *tensor.Dense) *tensor.Dense
}

// Family is the closed set of loss families with adapters.
type Family int

// Loss families.
const (
	FamilyMSE Family = iota
	FamilyBCE
	FamilyCE
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyMSE:
		return "mse"
	case FamilyBCE:
		return "bce"
	case FamilyCE:
		return "ce"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// FamilyOf classifies m.
func FamilyOf(m nn.Module) (Family, error) {
	switch {
	case m == nil:
		return 0, fmt.Errorf("%w: nil module", ErrNotLoss)
	case nn.IsNoOp(m):
		return 0, fmt.Errorf("%w: %s is a structural no-op", ErrNotLoss, m.Name())
	case !nn.IsLoss(m):
		return 0, fmt.Errorf("%w: %s", ErrNotLoss, m.Name())
	case nn.IsMSE(m):
		return FamilyMSE, nil
	case nn.IsBCE(m):
		return FamilyBCE, nil
	case nn.IsCE(m):
		return FamilyCE, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrNoAdapter, m.Name())
	}
}

// AdapterFor returns the adapter for m's loss family.
func AdapterFor(m nn.Module) (Adapter, error) {
	family, err := FamilyOf(m)
	if err != nil {
		return nil, err
	}
	switch family {
	case FamilyMSE:
		return NewMSE(), nil
	case FamilyBCE:
		return NewBCEWithLogits(), nil
	case FamilyCE:
		return NewCrossEntropy(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, family)
	}
}

// lossAs asserts the snapshot's module type for an adapter.
func lossAs[L nn.Loss](snap *nn.Snapshot, adapter string) (L, error) {
	l, ok := snap.Module().(L)
	if !ok {
		var zero L
		return zero, precondition("%s adapter cannot handle %s", adapter, snap.Module().Name())
	}
	return l, nil
}
