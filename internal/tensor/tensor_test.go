package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	s := Shape{4, 3, 2}

	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{6, 2, 1}, s.ComputeStrides())
	assert.True(t, s.Equal(Shape{4, 3, 2}))
	assert.False(t, s.Equal(Shape{4, 3}))
	assert.Equal(t, Shape{7, 3, 2}, s.WithBatch(7))
	assert.Equal(t, Shape{4, 3, 2}, s, "WithBatch must not modify the receiver")
	assert.Equal(t, 1, Shape{}.NumElements())

	require.Error(t, Shape{2, 0}.Validate())
	require.NoError(t, s.Validate())
}

func TestFromSlice(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	d, err := FromSlice(data, Shape{2, 3})
	require.NoError(t, err)

	data[0] = 100
	assert.Equal(t, 1.0, d.At(0, 0), "FromSlice must copy its input")
	assert.Equal(t, 6.0, d.At(1, 2))
	assert.Equal(t, 2, d.Dim())
	assert.Equal(t, 3, d.RowSize())

	_, err = FromSlice(data, Shape{4, 2})
	require.Error(t, err)
}

func TestFromRows(t *testing.T) {
	d, err := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, d.Shape())
	assert.Equal(t, []float64{3, 4}, d.Row(1))

	_, err = FromRows([][]float64{{1, 2}, {3}})
	require.Error(t, err)

	_, err = FromRows(nil)
	require.Error(t, err)
}

func TestSetAndClone(t *testing.T) {
	d := MustZeros(Shape{2, 2})
	d.Set(5, 1, 0)
	c := d.Clone()
	c.Set(7, 1, 0)

	assert.Equal(t, 5.0, d.At(1, 0))
	assert.Equal(t, 7.0, c.At(1, 0))
	assert.Panics(t, func() { d.At(2, 0) })
	assert.Panics(t, func() { d.At(0) })
}

func TestIndexSelect(t *testing.T) {
	d, err := FromRows([][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}})
	require.NoError(t, err)

	t.Run("order and repeats preserved", func(t *testing.T) {
		sel, err := d.IndexSelect([]int{3, 1, 3})
		require.NoError(t, err)
		assert.Equal(t, Shape{3, 2}, sel.Shape())
		assert.Equal(t, []float64{3, 3, 1, 1, 3, 3}, sel.Data())
	})

	t.Run("nil selects everything", func(t *testing.T) {
		sel, err := d.IndexSelect(nil)
		require.NoError(t, err)
		assert.Equal(t, d.Data(), sel.Data())
		sel.Data()[0] = 42
		assert.Equal(t, 0.0, d.At(0, 0), "selection must not alias the source")
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := d.IndexSelect([]int{4})
		require.Error(t, err)
		_, err = d.IndexSelect([]int{-1})
		require.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := d.IndexSelect([]int{})
		require.Error(t, err)
	})
}

func TestElementwise(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2, 3}, Shape{3})
	b, _ := FromSlice([]float64{4, 5, 6}, Shape{3})

	assert.Equal(t, []float64{5, 7, 9}, Add(a, b).Data())
	assert.Equal(t, []float64{-3, -3, -3}, Sub(a, b).Data())
	assert.Equal(t, []float64{4, 10, 18}, Mul(a, b).Data())
	assert.Equal(t, []float64{2, 4, 6}, Scale(a, 2).Data())
	assert.InDelta(t, 6.0, Sum(a), 1e-12)
	assert.Equal(t, []float64{1, 2, 3}, a.Data(), "operands must not be modified")

	ScaleInPlace(a, 3)
	assert.Equal(t, []float64{3, 6, 9}, a.Data())

	c, _ := FromSlice([]float64{1, 2}, Shape{2})
	assert.Panics(t, func() { Add(a, c) })
}

func TestSigmoid(t *testing.T) {
	x, _ := FromSlice([]float64{0, 2, -2, 800, -800}, Shape{5})
	s := Sigmoid(x).Data()

	assert.InDelta(t, 0.5, s[0], 1e-15)
	assert.InDelta(t, 1/(1+math.Exp(-2)), s[1], 1e-15)
	assert.InDelta(t, 1/(1+math.Exp(2)), s[2], 1e-15)
	assert.Equal(t, 1.0, s[3])
	assert.Equal(t, 0.0, s[4])

	ls := LogSigmoid(x).Data()
	assert.InDelta(t, math.Log(0.5), ls[0], 1e-15)
	assert.InDelta(t, math.Log(s[1]), ls[1], 1e-12)
	assert.InDelta(t, -800.0, ls[4], 1e-9)
	assert.False(t, math.IsInf(ls[4], 0))
}

func TestSigmoid_LargeTensorMatchesScalar(t *testing.T) {
	n := 3 * kernelConfig.MinChunkSize
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i%41) - 20
	}
	x, err := FromSlice(data, Shape{n})
	require.NoError(t, err)

	s := Sigmoid(x).Data()
	for i, v := range data {
		require.Equal(t, sigmoid(v), s[i])
	}
}

func TestSoftmaxRows(t *testing.T) {
	x, _ := FromRows([][]float64{{1, 2, 3}, {1000, 1000, 1000}})

	p := SoftmaxRows(x)
	for r := 0; r < 2; r++ {
		assert.InDelta(t, 1.0, Sum(&Dense{shape: Shape{3}, data: p.Row(r)}), 1e-12)
	}
	assert.InDelta(t, 1.0/3, p.At(1, 0), 1e-12)

	lse := math.Log(math.Exp(1) + math.Exp(2) + math.Exp(3))
	lp := LogSoftmaxRows(x)
	assert.InDelta(t, 3-lse, lp.At(0, 2), 1e-12)

	assert.Panics(t, func() { SoftmaxRows(MustZeros(Shape{2, 2, 2})) })
}
