// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package derivatives

import (
	"github.com/born-ml/secondorder/internal/derivatives"
	"github.com/born-ml/secondorder/internal/nn"
)

// Engine is the distribution-sampling engine.
type Engine = derivatives.Engine

// Request describes one derivative request.
type Request = derivatives.Request

// Estimate is a Hessian square root.
type Estimate = derivatives.Estimate

// NewEngine creates an engine around adapter.
func NewEngine(adapter Adapter, cfg Config) *Engine {
	return derivatives.NewEngine(adapter, cfg)
}

// NewEngineFor creates an engine for m's loss family.
//
// Example:
//
//	engine, err := derivatives.NewEngineFor(nn.NewMSELoss(), derivatives.DefaultConfig())
func NewEngineFor(m nn.Module, cfg Config) (*Engine, error) {
	return derivatives.NewEngineFor(m, cfg)
}

// Configuration

// Config configures an Engine.
type Config = derivatives.Config

// DefaultConfig returns closed-form scores, one sample and a random seed.
func DefaultConfig() Config {
	return derivatives.DefaultConfig()
}

// Strategy selects how per-sample scores are computed.
type Strategy = derivatives.Strategy

// Strategies.
const (
	StrategyManual   Strategy = derivatives.StrategyManual
	StrategyAutograd Strategy = derivatives.StrategyAutograd
)

// ParseStrategy parses "manual" or "autograd".
func ParseStrategy(s string) (Strategy, error) {
	return derivatives.ParseStrategy(s)
}

// Adapters

// Adapter supplies the loss-specific pieces of the engine.
type Adapter = derivatives.Adapter

// ExactSqrtHessian is implemented by adapters with a closed-form
// factorization.
type ExactSqrtHessian = derivatives.ExactSqrtHessian

// Distribution is a likelihood parametrized by the loss input.
type Distribution = derivatives.Distribution

// ScoreFunction is implemented by distributions with a closed-form score.
type ScoreFunction = derivatives.ScoreFunction

// BCEWithLogits is the adapter for nn.BCEWithLogitsLoss.
type BCEWithLogits = derivatives.BCEWithLogits

// NewBCEWithLogits creates the BCE-with-logits adapter.
func NewBCEWithLogits() *BCEWithLogits { return derivatives.NewBCEWithLogits() }

// MSE is the adapter for nn.MSELoss.
type MSE = derivatives.MSE

// NewMSE creates the MSE adapter.
func NewMSE() *MSE { return derivatives.NewMSE() }

// CrossEntropy is the adapter for nn.CrossEntropyLoss.
type CrossEntropy = derivatives.CrossEntropy

// NewCrossEntropy creates the cross-entropy adapter.
func NewCrossEntropy() *CrossEntropy { return derivatives.NewCrossEntropy() }

// Family is the closed set of loss families with adapters.
type Family = derivatives.Family

// Loss families.
const (
	FamilyMSE Family = derivatives.FamilyMSE
	FamilyBCE Family = derivatives.FamilyBCE
	FamilyCE  Family = derivatives.FamilyCE
)

// FamilyOf classifies m.
func FamilyOf(m nn.Module) (Family, error) { return derivatives.FamilyOf(m) }

// AdapterFor returns the adapter for m's loss family.
func AdapterFor(m nn.Module) (Adapter, error) { return derivatives.AdapterFor(m) }

// Errors

// Sentinel errors.
var (
	ErrUnsupported  = derivatives.ErrUnsupported
	ErrPrecondition = derivatives.ErrPrecondition
	ErrNotLoss      = derivatives.ErrNotLoss
	ErrNoAdapter    = derivatives.ErrNoAdapter
	ErrNoExactForm  = derivatives.ErrNoExactForm
)

// UnsupportedError names the support constraint a configuration violates.
type UnsupportedError = derivatives.UnsupportedError

// Constraint identifies a support check.
type Constraint = derivatives.Constraint

// Support constraints.
const (
	ConstraintBinaryTargets  Constraint = derivatives.ConstraintBinaryTargets
	ConstraintWeight         Constraint = derivatives.ConstraintWeight
	ConstraintReduction      Constraint = derivatives.ConstraintReduction
	ConstraintPosWeight      Constraint = derivatives.ConstraintPosWeight
	ConstraintInputRank      Constraint = derivatives.ConstraintInputRank
	ConstraintTargetShape    Constraint = derivatives.ConstraintTargetShape
	ConstraintIgnoreIndex    Constraint = derivatives.ConstraintIgnoreIndex
	ConstraintLabelSmoothing Constraint = derivatives.ConstraintLabelSmoothing
)
