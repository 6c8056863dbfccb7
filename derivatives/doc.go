// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package derivatives computes square roots of loss Hessians by sampling.
//
// # Overview
//
// For a loss that is the negative log-likelihood of a distribution
// parametrized by the loss input x, the Hessian w.r.t. x equals the
// expected outer product of the score ∇ₓ[-log p(ŷ | x)] for ŷ drawn from
// that distribution. An Engine builds the distribution, draws samples and
// returns one factor per sample; the sum of the factors' outer products
// estimates the Hessian without ever forming it.
//
// Supported losses:
//   - BCEWithLogitsLoss: binary targets, no weights, mean reduction, 2-D input
//   - MSELoss: mean or sum reduction, 2-D input
//   - CrossEntropyLoss: class-index targets, no weights, no label smoothing
//
// Any other configuration fails with ErrUnsupported before sampling; callers
// are expected to fall back to another derivative path.
//
// # Basic Usage
//
//	loss := nn.NewBCEWithLogitsLoss()
//	snap, err := nn.NewSnapshot(loss, logits, labels)
//
//	cfg := derivatives.DefaultConfig()
//	cfg.Seed = 42
//	engine, err := derivatives.NewEngineFor(loss, cfg)
//
//	est, err := engine.Compute(snap, derivatives.Request{MCSamples: 32})
//	h := est.Hessian(0) // D×D block of example 0
//
// # Normalization
//
// Under mean reduction every factor is scaled by 1/sqrt(divisor), where the
// divisor is computed on the full input even when Request.Subsampling
// selects only a few examples.
package derivatives
