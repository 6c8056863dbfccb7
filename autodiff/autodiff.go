// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over
// dense tensors.
//
// Operations performed through a Recorder are written to its GradientTape;
// Gradient walks the tape backwards from a scalar output. Custom
// distributions use it to express their negative log-likelihood once and get
// the score function for free.
//
// Example:
//
//	import (
//	    "github.com/born-ml/secondorder/autodiff"
//	    "github.com/born-ml/secondorder/tensor"
//	)
//
//	func main() {
//	    rec := autodiff.New()
//	    rec.Tape().StartRecording()
//
//	    x, _ := tensor.FromRows([][]float64{{1, 2}})
//	    y := rec.Sum(rec.Mul(x, x)) // Operations recorded on tape
//
//	    grad, _ := rec.Tape().Gradient(y, x) // 2x
//	}
package autodiff

import (
	"github.com/born-ml/secondorder/internal/autodiff"
)

// Recorder performs tensor operations and records them on its tape.
type Recorder = autodiff.Recorder

// New creates a recorder with a fresh tape.
func New() *Recorder {
	return autodiff.New()
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// Operation is a recorded differentiable operation.
type Operation = autodiff.Operation
