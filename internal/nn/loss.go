package nn

import (
	"fmt"

	"github.com/born-ml/secondorder/internal/tensor"
)

// Reduction is how per-element losses are aggregated into a scalar.
type Reduction int

// Supported reduction modes. The zero value is Mean, matching the usual
// default of loss configurations.
const (
	ReductionMean Reduction = iota
	ReductionSum
	ReductionNone
)

// String returns the conventional lowercase name.
func (r Reduction) String() string {
	switch r {
	case ReductionMean:
		return "mean"
	case ReductionSum:
		return "sum"
	case ReductionNone:
		return "none"
	default:
		return fmt.Sprintf("Reduction(%d)", int(r))
	}
}

// ParseReduction parses "mean", "sum" or "none".
func ParseReduction(s string) (Reduction, error) {
	switch s {
	case "mean", "":
		return ReductionMean, nil
	case "sum":
		return ReductionSum, nil
	case "none":
		return ReductionNone, nil
	default:
		return 0, fmt.Errorf("unknown reduction %q (want mean, sum or none)", s)
	}
}

// Loss is a configured loss function.
type Loss interface {
	Module

	// ReductionMode returns how the per-element loss is aggregated.
	ReductionMode() Reduction
}

// BCEWithLogitsLoss is binary cross-entropy on raw logits:
//
//	ℓ(x, y) = -[y·log σ(x) + (1-y)·log(1-σ(x))]
//
// Weight rescales every element, PosWeight rescales the positive term per
// class. Nil means unweighted.
type BCEWithLogitsLoss struct {
	Reduction Reduction
	Weight    *tensor.Dense
	PosWeight *tensor.Dense
}

// NewBCEWithLogitsLoss creates an unweighted, mean-reduced BCE loss.
func NewBCEWithLogitsLoss() *BCEWithLogitsLoss {
	return &BCEWithLogitsLoss{Reduction: ReductionMean}
}

// Name implements Module.
func (l *BCEWithLogitsLoss) Name() string { return "BCEWithLogitsLoss" }

// ReductionMode implements Loss.
func (l *BCEWithLogitsLoss) ReductionMode() Reduction { return l.Reduction }

// MSELoss is the squared error ℓ(x, y) = (x - y)².
type MSELoss struct {
	Reduction Reduction
}

// NewMSELoss creates a mean-reduced MSE loss.
func NewMSELoss() *MSELoss {
	return &MSELoss{Reduction: ReductionMean}
}

// Name implements Module.
func (l *MSELoss) Name() string { return "MSELoss" }

// ReductionMode implements Loss.
func (l *MSELoss) ReductionMode() Reduction { return l.Reduction }

// CrossEntropyLoss is softmax cross-entropy on logits [N, C] with class
// index targets [N].
type CrossEntropyLoss struct {
	Reduction      Reduction
	Weight         *tensor.Dense // per-class weights, nil for none
	IgnoreIndex    *int          // target value excluded from the loss, nil for none
	LabelSmoothing float64
}

// NewCrossEntropyLoss creates an unweighted, mean-reduced cross-entropy loss.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return &CrossEntropyLoss{Reduction: ReductionMean}
}

// Name implements Module.
func (l *CrossEntropyLoss) Name() string { return "CrossEntropyLoss" }

// ReductionMode implements Loss.
func (l *CrossEntropyLoss) ReductionMode() Reduction { return l.Reduction }
