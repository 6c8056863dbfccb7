package derivatives

import (
	"fmt"

	"github.com/born-ml/secondorder/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Estimate is a Hessian square root in per-example form. Every factor has
// the shape of the subsampled input, and row n of the factors only describes
// example n: the Hessian block of example n is Σ_k f_k[n] f_k[n]ᵀ, and blocks
// of distinct examples are zero because examples enter the loss
// independently. Products across rows of a factor carry no meaning.
//
// For sampled estimates the blocks converge to the Hessian of the reduced
// loss w.r.t. the subsampled raw input; for exact requests they equal it.
type Estimate struct {
	Factors []*tensor.Dense
}

// Len returns the number of factors.
func (e *Estimate) Len() int {
	return len(e.Factors)
}

// Shape returns the shape shared by all factors.
func (e *Estimate) Shape() tensor.Shape {
	if len(e.Factors) == 0 {
		return nil
	}
	return e.Factors[0].Shape()
}

// Hessian returns the D×D block of example n: Σ_k v_k v_kᵀ where v_k is row
// n of factor k.
func (e *Estimate) Hessian(n int) *mat.SymDense {
	if len(e.Factors) == 0 {
		panic("Estimate.Hessian: no factors")
	}
	if n < 0 || n >= e.Factors[0].Shape()[0] {
		panic(fmt.Sprintf("Estimate.Hessian: example %d out of range", n))
	}
	d := e.Factors[0].RowSize()
	h := mat.NewSymDense(d, nil)
	for _, f := range e.Factors {
		h.SymRankOne(h, 1, mat.NewVecDense(d, f.Row(n)))
	}
	return h
}

// Full returns the Hessian over the flattened input. It is block-diagonal:
// block n is Hessian(n) and every cross-example entry is zero.
func (e *Estimate) Full() *mat.SymDense {
	if len(e.Factors) == 0 {
		panic("Estimate.Full: no factors")
	}
	rows, d := e.Factors[0].Shape()[0], e.Factors[0].RowSize()
	h := mat.NewSymDense(rows*d, nil)
	for n := 0; n < rows; n++ {
		block := e.Hessian(n)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				h.SetSym(n*d+i, n*d+j, block.At(i, j))
			}
		}
	}
	return h
}

// Diagonal returns Σ_k v_k², the diagonal of the Hessian arranged in the
// input's shape.
func (e *Estimate) Diagonal() *tensor.Dense {
	if len(e.Factors) == 0 {
		panic("Estimate.Diagonal: no factors")
	}
	out := tensor.MustZeros(e.Factors[0].Shape())
	acc := out.Data()
	for _, f := range e.Factors {
		for i, v := range f.Data() {
			acc[i] += v * v
		}
	}
	return out
}
