package nn

import (
	"errors"

	"github.com/born-ml/secondorder/internal/tensor"
)

// Errors reported for incomplete forward-pass state.
var (
	ErrMissingModule = errors.New("snapshot has no loss module")
	ErrMissingInput  = errors.New("snapshot has no input (derivative requested before a forward pass)")
	ErrMissingTarget = errors.New("snapshot has no target (derivative requested before a forward pass)")
)

// Snapshot is the forward-pass state of one loss evaluation: the loss
// configuration, the raw input it received and the observed target.
//
// NewSnapshot copies both tensors, so a Snapshot is an immutable value that
// stays valid after the caller reuses its buffers for the next forward pass.
// Consumers must treat Input and Target as read-only.
type Snapshot struct {
	module Loss
	input  *tensor.Dense
	target *tensor.Dense
}

// NewSnapshot records a loss evaluation.
func NewSnapshot(module Loss, input, target *tensor.Dense) (*Snapshot, error) {
	s := &Snapshot{module: module, input: input, target: target}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.input = input.Clone()
	s.target = target.Clone()
	return s, nil
}

// Validate reports missing pieces of forward-pass state.
func (s *Snapshot) Validate() error {
	switch {
	case s == nil || s.module == nil:
		return ErrMissingModule
	case s.input == nil:
		return ErrMissingInput
	case s.target == nil:
		return ErrMissingTarget
	}
	return nil
}

// Module returns the loss configuration.
func (s *Snapshot) Module() Loss { return s.module }

// Input returns the raw (pre-distribution) input.
func (s *Snapshot) Input() *tensor.Dense { return s.input }

// Target returns the observed target.
func (s *Snapshot) Target() *tensor.Dense { return s.target }
