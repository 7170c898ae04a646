// Package esn implements stacked echo state networks
// whose linear readout is learned by ridge regression.
package esn

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Readout solvers.
const (
	// Cholesky factorization of the regularized covariance.
	SolverInv = "inv"
	// Conjugate gradient, one right-hand side at a time.
	SolverCG = "cg"
)

// Config describes a stacked echo state network.
// Sparsity values are the probability that a connection exists.
type Config struct {
	InputDim   int
	HiddenDims []int
	OutputDim  int

	SpectralRadius float64
	InputSparsity  float64
	WSparsity      float64
	InputScaling   float64
	BiasScaling    float64
	// One leak rate per layer.
	LeakRates []float64

	// Regularization added to the diagonal before solving.
	Ridge  float64
	Solver string
	// Conjugate gradient tolerance and maximum iterations.
	CGTol  float64
	CGIter int
}

// LeakRates returns the leak rate of every layer.
// A single layer uses base.
// Otherwise the rates decrease linearly from 1 in the first layer
// to base in the last layer.
func LeakRates(layers int, base float64) []float64 {
	switch {
	case layers < 1:
		return nil
	case layers == 1:
		return []float64{base}
	}
	return floats.Span(make([]float64, layers), 1, base)
}

func (c Config) validate() error {
	if c.InputDim <= 0 {
		return errors.Errorf("invalid input dimension: %d", c.InputDim)
	}
	if c.OutputDim <= 0 {
		return errors.Errorf("invalid output dimension: %d", c.OutputDim)
	}
	if len(c.HiddenDims) == 0 {
		return errors.New("no layers")
	}
	for i, n := range c.HiddenDims {
		if n <= 0 {
			return errors.Errorf("layer %d: invalid size %d", i, n)
		}
	}
	if len(c.LeakRates) != len(c.HiddenDims) {
		return errors.Errorf("%d leak rates for %d layers", len(c.LeakRates), len(c.HiddenDims))
	}
	for i, a := range c.LeakRates {
		if a <= 0 || a > 1 {
			return errors.Errorf("layer %d: leak rate %g not in (0, 1]", i, a)
		}
	}
	switch c.Solver {
	case "", SolverInv, SolverCG:
	default:
		return errors.Errorf("unknown solver: %q", c.Solver)
	}
	return nil
}

// stateDim is the number of readout inputs, including the bias.
func (c Config) stateDim() int {
	n := 1
	for _, h := range c.HiddenDims {
		n += h
	}
	return n
}
