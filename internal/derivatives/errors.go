package derivatives

import (
	"errors"
	"fmt"

	"github.com/born-ml/secondorder/internal/nn"
)

// Sentinel errors. Every error returned by this package matches exactly one
// of them under errors.Is.
var (
	// ErrUnsupported marks a loss configuration outside the analytically
	// supported subset. It is permanent: callers fall back to another
	// derivative path instead of retrying.
	ErrUnsupported = errors.New("unsupported loss configuration")

	// ErrPrecondition marks misuse: missing forward-pass state, invalid
	// sample indices, a non-positive sample count.
	ErrPrecondition = errors.New("derivative precondition violated")

	// ErrNotLoss is returned when dispatching on a module that is not a loss.
	ErrNotLoss = errors.New("module is not a loss function")

	// ErrNoAdapter is returned for losses without a second-order adapter.
	ErrNoAdapter = errors.New("no second-order adapter for loss")

	// ErrNoExactForm is returned by exact requests on adapters that only
	// support sampling.
	ErrNoExactForm = errors.New("adapter has no exact square-root factorization")
)

// Constraint identifies which support check rejected a configuration.
type Constraint int

// Support constraints.
const (
	ConstraintBinaryTargets Constraint = iota
	ConstraintWeight
	ConstraintReduction
	ConstraintPosWeight
	ConstraintInputRank
	ConstraintTargetShape
	ConstraintIgnoreIndex
	ConstraintLabelSmoothing
)

// String returns a short identifier for the constraint.
func (c Constraint) String() string {
	switch c {
	case ConstraintBinaryTargets:
		return "binary targets"
	case ConstraintWeight:
		return "weight"
	case ConstraintReduction:
		return "reduction"
	case ConstraintPosWeight:
		return "pos_weight"
	case ConstraintInputRank:
		return "input rank"
	case ConstraintTargetShape:
		return "target shape"
	case ConstraintIgnoreIndex:
		return "ignore_index"
	case ConstraintLabelSmoothing:
		return "label_smoothing"
	default:
		return fmt.Sprintf("Constraint(%d)", int(c))
	}
}

// UnsupportedError reports the first support constraint a loss
// configuration violates.
type UnsupportedError struct {
	Loss       string
	Constraint Constraint
	Detail     string
}

// Error implements error.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported %s: %s", e.Loss, e.Constraint, e.Detail)
}

// Is makes UnsupportedError match ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func unsupported(loss nn.Loss, c Constraint, format string, args ...any) error {
	return &UnsupportedError{
		Loss:       loss.Name(),
		Constraint: c,
		Detail:     fmt.Sprintf(format, args...),
	}
}

func precondition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
