// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/secondorder/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3} is a batch of two examples with three features.
type Shape = tensor.Shape

// Dense is a dense row-major float64 tensor.
type Dense = tensor.Dense

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape) (*Dense, error) {
	return tensor.Zeros(shape)
}

// MustZeros is Zeros for shapes known to be valid. It panics otherwise.
func MustZeros(shape Shape) *Dense {
	return tensor.MustZeros(shape)
}

// Full creates a tensor with every element set to value.
func Full(shape Shape, value float64) (*Dense, error) {
	return tensor.Full(shape, value)
}

// FromSlice creates a tensor holding a copy of data.
//
// Example:
//
//	x, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice(data []float64, shape Shape) (*Dense, error) {
	return tensor.FromSlice(data, shape)
}

// FromRows creates a 2-D tensor from equally long rows.
func FromRows(rows [][]float64) (*Dense, error) {
	return tensor.FromRows(rows)
}

// Element-wise operations. Binary operations panic on shape mismatch.

// Add returns a + b.
func Add(a, b *Dense) *Dense { return tensor.Add(a, b) }

// Sub returns a - b.
func Sub(a, b *Dense) *Dense { return tensor.Sub(a, b) }

// Mul returns the element-wise product a ⊙ b.
func Mul(a, b *Dense) *Dense { return tensor.Mul(a, b) }

// Scale returns c·a.
func Scale(a *Dense, c float64) *Dense { return tensor.Scale(a, c) }

// Sum returns the sum of all elements.
func Sum(a *Dense) float64 { return tensor.Sum(a) }

// Sigmoid returns σ(a) element-wise.
func Sigmoid(a *Dense) *Dense { return tensor.Sigmoid(a) }

// SoftmaxRows returns the softmax of every row of a 2-D tensor.
func SoftmaxRows(a *Dense) *Dense { return tensor.SoftmaxRows(a) }
