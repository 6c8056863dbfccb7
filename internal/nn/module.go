// Package nn models the computation-graph nodes the derivative machinery
// visits: layers, structural containers and loss configurations.
//
// This package provides:
//   - Module: base interface for every graph node
//   - Layer: modules with a single-tensor forward pass
//   - Containers: Sequential, Branch, Parallel, ReduceTuple
//   - Loss configurations: BCEWithLogitsLoss, MSELoss, CrossEntropyLoss
//   - Snapshot: the forward-pass state a derivative request consumes
//   - Classification predicates: IsLoss, IsMSE, IsBCE, IsCE, IsNoOp
package nn

import (
	"fmt"

	"github.com/born-ml/secondorder/internal/tensor"
)

// Module is the base interface for all graph nodes.
type Module interface {
	// Name returns a short human-readable identifier used in errors.
	Name() string
}

// Layer is a module mapping one tensor to another.
type Layer interface {
	Module

	// Forward computes the output of the layer for the given input.
	Forward(input *tensor.Dense) *tensor.Dense
}

// Sigmoid is an element-wise sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
type Sigmoid struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Name implements Module.
func (s *Sigmoid) Name() string { return "Sigmoid" }

// Forward applies the sigmoid.
func (s *Sigmoid) Forward(input *tensor.Dense) *tensor.Dense {
	return tensor.Sigmoid(input)
}

// Sequential is a container module that chains multiple layers together.
//
// Example:
//
//	model := nn.NewSequential(a, b, c)
//	output := model.Forward(input) // c(b(a(input)))
type Sequential struct {
	layers []Layer
}

// NewSequential creates a new Sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{layers: layers}
}

// Name implements Module.
func (s *Sequential) Name() string { return "Sequential" }

// Forward applies all layers in sequence.
func (s *Sequential) Forward(input *tensor.Dense) *tensor.Dense {
	output := input
	for _, layer := range s.layers {
		output = layer.Forward(output)
	}
	return output
}

// Layers returns the contained layers.
func (s *Sequential) Layers() []Layer {
	return s.layers
}

// Len returns the number of layers.
func (s *Sequential) Len() int {
	return len(s.layers)
}

// Branch marks a fan-out point: its single input is handed to n consumers.
type Branch struct {
	n int
}

// NewBranch creates a fan-out into n copies.
func NewBranch(n int) *Branch {
	return &Branch{n: n}
}

// Name implements Module.
func (b *Branch) Name() string { return "Branch" }

// Fanout returns n independent copies of input.
func (b *Branch) Fanout(input *tensor.Dense) []*tensor.Dense {
	out := make([]*tensor.Dense, b.n)
	for i := range out {
		out[i] = input.Clone()
	}
	return out
}

// ReduceTuple selects one element of a tuple of tensors.
type ReduceTuple struct {
	index int
}

// NewReduceTuple creates a selector for element index.
func NewReduceTuple(index int) *ReduceTuple {
	return &ReduceTuple{index: index}
}

// Name implements Module.
func (r *ReduceTuple) Name() string { return "ReduceTuple" }

// Reduce returns the selected element.
func (r *ReduceTuple) Reduce(inputs []*tensor.Dense) *tensor.Dense {
	if r.index < 0 || r.index >= len(inputs) {
		panic(fmt.Sprintf("ReduceTuple: index %d out of range for %d inputs", r.index, len(inputs)))
	}
	return inputs[r.index]
}

// Parallel feeds one input through several branches and sums their outputs.
//
// Forward is equivalent to:
//
//	xs := NewBranch(len(branches)).Fanout(input)
//	out := branches[0].Forward(xs[0]) + ... + branches[n-1].Forward(xs[n-1])
type Parallel struct {
	branch   *Branch
	branches []Layer
}

// NewParallel creates a Parallel container.
func NewParallel(branches ...Layer) *Parallel {
	if len(branches) == 0 {
		panic("Parallel: at least one branch is required")
	}
	return &Parallel{
		branch:   NewBranch(len(branches)),
		branches: branches,
	}
}

// Name implements Module.
func (p *Parallel) Name() string { return "Parallel" }

// Forward runs every branch and sums the results.
func (p *Parallel) Forward(input *tensor.Dense) *tensor.Dense {
	inputs := p.branch.Fanout(input)
	outputs := make([]*tensor.Dense, len(p.branches))
	for i, layer := range p.branches {
		outputs[i] = layer.Forward(inputs[i])
	}

	sum := NewReduceTuple(0).Reduce(outputs)
	for _, o := range outputs[1:] {
		sum = tensor.Add(sum, o)
	}
	return sum
}
