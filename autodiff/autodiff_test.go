// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"testing"

	"github.com/born-ml/secondorder/autodiff"
	"github.com/born-ml/secondorder/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderGradient(t *testing.T) {
	rec := autodiff.New()
	rec.Tape().StartRecording()

	x, err := tensor.FromRows([][]float64{{1, -2}, {0.5, 3}})
	require.NoError(t, err)

	y := rec.Sum(rec.Mul(x, x))
	assert.Equal(t, 2, rec.Tape().NumOps())

	grad, err := rec.Tape().Gradient(y, x)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -4, 1, 6}, grad.Data())
}
