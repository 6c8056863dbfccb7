// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors the second-order API
// works on.
//
// # Overview
//
// A Dense tensor is a contiguous row-major buffer plus its Shape. The first
// dimension is the batch dimension: losses treat row i as example i, and
// subsampling selects rows with IndexSelect.
//
// # Basic Usage
//
//	x, err := tensor.FromRows([][]float64{
//	    {0.3, -1.2},
//	    {2.0, 0.1},
//	})
//	p := tensor.Sigmoid(x)    // element-wise
//	q := tensor.SoftmaxRows(x) // per example
//	sub, err := x.IndexSelect([]int{1, 1, 0})
//
// # Concurrency
//
// Element-wise kernels split large tensors across goroutines. Results are
// identical to sequential execution. A Dense is not safe for concurrent
// mutation.
package tensor
