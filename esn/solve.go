package esn

import (
	"io"
	"log"

	"github.com/jvlmdr/go-cg/cg"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultCGTol  = 1e-8
	defaultCGIter = 1000
)

// Computes A \ B using Cholesky factorization.
func solveDirect(a *mat.SymDense, b *mat.Dense) (*mat.Dense, error) {
	n := a.SymmetricDim()
	_, k := b.Dims()
	log.Printf("solve %dx%d linear system, %d right-hand sides", n, n, k)
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, errors.New("matrix is not positive definite, increase ridge")
	}
	x := mat.NewDense(n, k, nil)
	if err := chol.SolveTo(x, b); err != nil {
		return nil, err
	}
	return x, nil
}

// Computes A \ B column by column using conjugate gradient.
func solveConjGrad(a *mat.SymDense, b *mat.Dense, tol float64, iter int) (*mat.Dense, error) {
	if tol <= 0 {
		tol = defaultCGTol
	}
	if iter <= 0 {
		iter = defaultCGIter
	}
	n := a.SymmetricDim()
	_, k := b.Dims()
	log.Printf("conjugate gradient on %dx%d system, %d right-hand sides", n, n, k)
	mul := func(x []float64) []float64 {
		y := mat.NewVecDense(n, nil)
		y.MulVec(a, mat.NewVecDense(n, x))
		return y.RawVector().Data
	}
	x := mat.NewDense(n, k, nil)
	for j := 0; j < k; j++ {
		rhs := mat.Col(nil, j, b)
		init := make([]float64, n)
		sol, err := cg.Solve(mul, rhs, init, tol, iter, io.Discard)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", j)
		}
		x.SetCol(j, sol)
	}
	return x, nil
}
