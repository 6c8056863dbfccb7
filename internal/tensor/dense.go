// Package tensor provides the dense float64 tensors the derivative engine
// operates on.
//
// Dense tensors are row-major, own their buffer and are never resized.
// Dimension 0 is the batch dimension by convention.
package tensor

import (
	"fmt"
)

// Dense is a row-major float64 tensor.
type Dense struct {
	shape  Shape
	stride []int
	data   []float64
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Dense{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   make([]float64, shape.NumElements()),
	}, nil
}

// MustZeros is like Zeros but panics on an invalid shape.
func MustZeros(shape Shape) *Dense {
	d, err := Zeros(shape)
	if err != nil {
		panic(err)
	}
	return d
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) (*Dense, error) {
	d, err := Zeros(shape)
	if err != nil {
		return nil, err
	}
	for i := range d.data {
		d.data[i] = value
	}
	return d, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Dense, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	d, err := Zeros(shape)
	if err != nil {
		return nil, err
	}
	copy(d.data, data)
	return d, nil
}

// FromRows creates a [len(rows), len(rows[0])] tensor.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("FromRows: no rows")
	}
	width := len(rows[0])
	flat := make([]float64, 0, len(rows)*width)
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("FromRows: row %d has %d columns, want %d", i, len(r), width)
		}
		flat = append(flat, r...)
	}
	return FromSlice(flat, Shape{len(rows), width})
}

// Shape returns the tensor's shape.
func (d *Dense) Shape() Shape {
	return d.shape
}

// Dim returns the number of dimensions.
func (d *Dense) Dim() int {
	return len(d.shape)
}

// NumElements returns the total number of elements.
func (d *Dense) NumElements() int {
	return len(d.data)
}

// Data returns the underlying buffer.
// WARNING: Direct access to underlying memory. Use with caution.
func (d *Dense) Data() []float64 {
	return d.data
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	return &Dense{
		shape:  d.shape.Clone(),
		stride: append([]int(nil), d.stride...),
		data:   append([]float64(nil), d.data...),
	}
}

// At returns the element at the given multi-index.
func (d *Dense) At(idx ...int) float64 {
	return d.data[d.offset(idx)]
}

// Set writes v at the given multi-index.
func (d *Dense) Set(v float64, idx ...int) {
	d.data[d.offset(idx)] = v
}

func (d *Dense) offset(idx []int) int {
	if len(idx) != len(d.shape) {
		panic(fmt.Sprintf("tensor: got %d indices for %d-D tensor", len(idx), len(d.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= d.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d of size %d", v, i, d.shape[i]))
		}
		off += v * d.stride[i]
	}
	return off
}

// RowSize returns the number of elements per entry of dimension 0.
func (d *Dense) RowSize() int {
	if len(d.shape) == 0 {
		return 1
	}
	return len(d.data) / d.shape[0]
}

// Row returns a view of entry i along dimension 0, flattened.
func (d *Dense) Row(i int) []float64 {
	w := d.RowSize()
	return d.data[i*w : (i+1)*w]
}

// IndexSelect gathers entries of dimension 0 in the given order.
// Indices may repeat. A nil slice selects the whole tensor (as a copy).
func (d *Dense) IndexSelect(indices []int) (*Dense, error) {
	if indices == nil {
		return d.Clone(), nil
	}
	if len(d.shape) == 0 {
		return nil, fmt.Errorf("IndexSelect: scalar tensor has no batch dimension")
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("IndexSelect: empty index set")
	}
	n := d.shape[0]
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("IndexSelect: index %d out of range [0, %d)", idx, n)
		}
	}

	out := MustZeros(d.shape.WithBatch(len(indices)))
	w := d.RowSize()
	for i, idx := range indices {
		copy(out.data[i*w:(i+1)*w], d.data[idx*w:(idx+1)*w])
	}
	return out, nil
}

// String implements fmt.Stringer.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense%v%v", []int(d.shape), d.data)
}
