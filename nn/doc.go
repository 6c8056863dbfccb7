// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the module model the second-order API dispatches on.
//
// # Overview
//
// This package contains:
//   - Loss configurations: BCEWithLogitsLoss, MSELoss, CrossEntropyLoss
//   - Structural modules: Sequential, Branch, Parallel, ReduceTuple
//   - Snapshot: the forward-pass state of one loss evaluation
//   - Predicates classifying modules (IsLoss, IsBCE, IsNoOp, ...)
//
// # Basic Usage
//
//	loss := nn.NewBCEWithLogitsLoss()
//	snap, err := nn.NewSnapshot(loss, logits, labels)
//	if err != nil {
//	    return err // missing forward-pass state
//	}
//
// Losses are plain configuration values: the zero value of every field is
// the conventional default (mean reduction, no weights).
package nn
