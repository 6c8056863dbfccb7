// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/secondorder/internal/nn"
	"github.com/born-ml/secondorder/internal/tensor"
)

// Module is the base interface for all graph nodes.
type Module = nn.Module

// Layer is a module mapping one tensor to another.
type Layer = nn.Layer

// Loss is a configured loss function.
type Loss = nn.Loss

// Reduction is how per-element losses are aggregated into a scalar.
type Reduction = nn.Reduction

// Reduction modes.
const (
	ReductionMean Reduction = nn.ReductionMean
	ReductionSum  Reduction = nn.ReductionSum
	ReductionNone Reduction = nn.ReductionNone
)

// ParseReduction parses "mean", "sum" or "none".
func ParseReduction(s string) (Reduction, error) {
	return nn.ParseReduction(s)
}

// Losses

// BCEWithLogitsLoss is binary cross-entropy on raw logits.
type BCEWithLogitsLoss = nn.BCEWithLogitsLoss

// NewBCEWithLogitsLoss creates a BCE-with-logits loss with mean reduction.
func NewBCEWithLogitsLoss() *BCEWithLogitsLoss {
	return nn.NewBCEWithLogitsLoss()
}

// MSELoss is the squared error loss.
type MSELoss = nn.MSELoss

// NewMSELoss creates an MSE loss with mean reduction.
func NewMSELoss() *MSELoss {
	return nn.NewMSELoss()
}

// CrossEntropyLoss is softmax cross-entropy on logits with class-index
// targets.
type CrossEntropyLoss = nn.CrossEntropyLoss

// NewCrossEntropyLoss creates a cross-entropy loss with mean reduction.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return nn.NewCrossEntropyLoss()
}

// Structural modules

// Sigmoid is the logistic activation.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a sigmoid activation.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Sequential chains layers.
type Sequential = nn.Sequential

// NewSequential creates a container running layers in order.
//
// Example:
//
//	model := nn.NewSequential(nn.NewSigmoid(), nn.NewSigmoid())
func NewSequential(layers ...Layer) *Sequential {
	return nn.NewSequential(layers...)
}

// Branch fans one input out to several consumers.
type Branch = nn.Branch

// NewBranch creates a fan-out into n copies.
func NewBranch(n int) *Branch {
	return nn.NewBranch(n)
}

// ReduceTuple selects one element of a tuple of tensors.
type ReduceTuple = nn.ReduceTuple

// NewReduceTuple creates a selector for the given tuple index.
func NewReduceTuple(index int) *ReduceTuple {
	return nn.NewReduceTuple(index)
}

// Parallel runs branches on the same input and sums their outputs.
type Parallel = nn.Parallel

// NewParallel creates a parallel container. It panics without branches.
func NewParallel(branches ...Layer) *Parallel {
	return nn.NewParallel(branches...)
}

// Forward-pass state

// Snapshot is the forward-pass state of one loss evaluation.
type Snapshot = nn.Snapshot

// Snapshot errors.
var (
	ErrMissingModule = nn.ErrMissingModule
	ErrMissingInput  = nn.ErrMissingInput
	ErrMissingTarget = nn.ErrMissingTarget
)

// NewSnapshot records a loss evaluation. Both tensors are copied.
func NewSnapshot(loss Loss, input, target *tensor.Dense) (*Snapshot, error) {
	return nn.NewSnapshot(loss, input, target)
}

// Classification

// IsLoss reports whether m is a loss function.
func IsLoss(m Module) bool { return nn.IsLoss(m) }

// IsMSE reports whether m is an MSELoss.
func IsMSE(m Module) bool { return nn.IsMSE(m) }

// IsBCE reports whether m is a BCEWithLogitsLoss.
func IsBCE(m Module) bool { return nn.IsBCE(m) }

// IsCE reports whether m is a CrossEntropyLoss.
func IsCE(m Module) bool { return nn.IsCE(m) }

// IsNoOp reports whether m is a structural node without computation.
func IsNoOp(m Module) bool { return nn.IsNoOp(m) }
