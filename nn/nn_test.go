// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/born-ml/secondorder/nn"
	"github.com/born-ml/secondorder/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModuleClassification verifies the predicates over the public types.
func TestModuleClassification(t *testing.T) {
	tests := []struct {
		name   string
		module nn.Module
		loss   bool
		noop   bool
	}{
		{name: "BCEWithLogitsLoss", module: nn.NewBCEWithLogitsLoss(), loss: true},
		{name: "MSELoss", module: nn.NewMSELoss(), loss: true},
		{name: "CrossEntropyLoss", module: nn.NewCrossEntropyLoss(), loss: true},
		{name: "Sigmoid", module: nn.NewSigmoid()},
		{name: "Sequential", module: nn.NewSequential(nn.NewSigmoid()), noop: true},
		{name: "Branch", module: nn.NewBranch(2), noop: true},
		{name: "Parallel", module: nn.NewParallel(nn.NewSigmoid()), noop: true},
		{name: "ReduceTuple", module: nn.NewReduceTuple(0), noop: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.module.Name())
			assert.Equal(t, tt.loss, nn.IsLoss(tt.module))
			assert.Equal(t, tt.noop, nn.IsNoOp(tt.module))
		})
	}

	assert.True(t, nn.IsBCE(nn.NewBCEWithLogitsLoss()))
	assert.True(t, nn.IsMSE(nn.NewMSELoss()))
	assert.True(t, nn.IsCE(nn.NewCrossEntropyLoss()))
	assert.False(t, nn.IsCE(nn.NewMSELoss()))
}

func TestSnapshot(t *testing.T) {
	x, err := tensor.FromRows([][]float64{{0, 1}})
	require.NoError(t, err)

	_, err = nn.NewSnapshot(nn.NewMSELoss(), x, nil)
	assert.ErrorIs(t, err, nn.ErrMissingTarget)

	snap, err := nn.NewSnapshot(nn.NewMSELoss(), x, x)
	require.NoError(t, err)
	x.Set(5, 0, 0)
	assert.Equal(t, 0.0, snap.Input().At(0, 0))

	r, err := nn.ParseReduction("sum")
	require.NoError(t, err)
	assert.Equal(t, nn.ReductionSum, r)
}
