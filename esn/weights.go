package esn

import (
	"math/cmplx"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GenerateWs draws the recurrent matrices of a stack of layers
// which all have the same size.
// Each connection exists with probability sparsity and
// has a weight drawn uniformly from [-1, 1].
// The matrices are not scaled; New scales a copy to the spectral radius,
// hence the same matrices can be shared by several networks.
func GenerateWs(layers, size int, sparsity float64, rng *rand.Rand) []*mat.Dense {
	ws := make([]*mat.Dense, layers)
	for i := range ws {
		ws[i] = randSparse(size, size, sparsity, 1, rng)
	}
	return ws
}

// randSparse returns an m x n matrix whose elements are non-zero with
// probability density and otherwise uniform in [-scale, scale].
func randSparse(m, n int, density, scale float64, rng *rand.Rand) *mat.Dense {
	u := distuv.Uniform{Min: -scale, Max: scale, Src: rng}
	elems := make([]float64, m*n)
	for i := range elems {
		if rng.Float64() < density {
			elems[i] = u.Rand()
		}
	}
	return mat.NewDense(m, n, elems)
}

// SpectralRadius returns the largest absolute eigenvalue of a square matrix.
func SpectralRadius(w mat.Matrix) (float64, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(w, mat.EigenNone); !ok {
		return 0, errors.New("eigen decomposition did not converge")
	}
	var rho float64
	for _, v := range eig.Values(nil) {
		if a := cmplx.Abs(v); a > rho {
			rho = a
		}
	}
	return rho, nil
}

// scaleToRadius returns a copy of w with spectral radius rho.
func scaleToRadius(w *mat.Dense, rho float64) (*mat.Dense, error) {
	curr, err := SpectralRadius(w)
	if err != nil {
		return nil, err
	}
	if curr == 0 {
		return nil, errors.New("recurrent matrix has zero spectral radius")
	}
	var dst mat.Dense
	dst.Scale(rho/curr, w)
	return &dst, nil
}
