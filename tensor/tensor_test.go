// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/secondorder/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublicAPI verifies the aliases expose the internal implementation.
func TestPublicAPI(t *testing.T) {
	x, err := tensor.FromRows([][]float64{{0, 1}, {2, 3}})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, x.Shape())

	sub, err := x.IndexSelect([]int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 2, 3}, sub.Data())

	y := tensor.Scale(tensor.Add(x, x), 0.5)
	assert.Equal(t, x.Data(), y.Data())
	assert.Equal(t, 6.0, tensor.Sum(x))

	p := tensor.Sigmoid(tensor.MustZeros(tensor.Shape{1, 3}))
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, p.Data())

	s := tensor.SoftmaxRows(tensor.MustZeros(tensor.Shape{1, 4}))
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, s.Data(), 1e-15)

	_, err = tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{2, 2})
	assert.Error(t, err)
}
