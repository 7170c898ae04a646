package esn

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MinMax rescales y in place to [0, 1] using its global minimum and maximum.
// A constant matrix becomes zero.
func MinMax(y *mat.Dense) {
	lo, hi := mat.Min(y), mat.Max(y)
	y.Apply(func(_, _ int, v float64) float64 {
		if hi == lo {
			return 0
		}
		return (v - lo) / (hi - lo)
	}, y)
}

// NormalizeRows scales every row of y in place to sum to one.
// A row which sums to zero is replaced by the uniform distribution.
func NormalizeRows(y *mat.Dense) {
	r, c := y.Dims()
	for i := 0; i < r; i++ {
		row := y.RawRowView(i)
		sum := floats.Sum(row)
		if sum == 0 {
			for j := range row {
				row[j] = 1 / float64(c)
			}
			continue
		}
		floats.Scale(1/sum, row)
	}
}

// MaxAverageThroughTime returns the column of y with the largest mean.
func MaxAverageThroughTime(y mat.Matrix) int {
	r, c := y.Dims()
	means := make([]float64, c)
	for j := range means {
		means[j] = floats.Sum(mat.Col(nil, j, y)) / float64(r)
	}
	return floats.MaxIdx(means)
}

// Predict classifies a sequence: the outputs are rescaled to [0, 1],
// normalized to a distribution at every time step and
// the class with the largest average probability is returned.
func (s *StackedESN) Predict(u mat.Matrix) (int, error) {
	y, err := s.Forward(u)
	if err != nil {
		return 0, err
	}
	MinMax(y)
	NormalizeRows(y)
	return MaxAverageThroughTime(y), nil
}
