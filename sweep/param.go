package sweep

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"

	"github.com/pan-webis-de/schaetti18-authorship-attribution/esn"
)

// Param is one configuration of the stacked echo state network.
type Param struct {
	ReservoirSize  int
	Layers         int
	SpectralRadius float64
	InputSparsity  float64
	WSparsity      float64
	InputScaling   float64
	// Leak rate of the last layer.
	LeakRate float64
	Ridge    float64
	Solver   string
}

// ID is a human-readable string.
func (p Param) ID() string {
	repr, err := json.Marshal(p)
	if err != nil {
		panic(fmt.Sprintf("encode struct: %v", err))
	}
	return string(repr)
}

// Key is a short unique string.
func (p Param) Key() string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(p.ID())))[:8]
}

// Config returns the network configuration for a problem.
func (p Param) Config(inputDim, outputDim int) esn.Config {
	hidden := make([]int, p.Layers)
	for i := range hidden {
		hidden[i] = p.ReservoirSize
	}
	return esn.Config{
		InputDim:       inputDim,
		HiddenDims:     hidden,
		OutputDim:      outputDim,
		SpectralRadius: p.SpectralRadius,
		InputSparsity:  p.InputSparsity,
		WSparsity:      p.WSparsity,
		InputScaling:   p.InputScaling,
		LeakRates:      esn.LeakRates(p.Layers, p.LeakRate),
		Ridge:          p.Ridge,
		Solver:         p.Solver,
	}
}

// ParamSet is the Cartesian product of its fields.
type ParamSet struct {
	ReservoirSize  []int
	Layers         []int
	SpectralRadius []float64
	InputSparsity  []float64
	WSparsity      []float64
	InputScaling   []float64
	LeakRate       []float64
	Ridge          []float64
	Solver         []string
}

// DefaultParamSet is the grid of reservoir sizes and depths
// used for the PAN 2018 author identification task.
func DefaultParamSet() *ParamSet {
	return &ParamSet{
		ReservoirSize:  []int{400, 500, 600, 700},
		Layers:         []int{1, 2, 3, 4},
		SpectralRadius: []float64{0.95},
		InputSparsity:  []float64{0.1},
		WSparsity:      []float64{0.2},
		InputScaling:   []float64{0.5},
		LeakRate:       []float64{0.1},
		Ridge:          []float64{1e-6},
		Solver:         []string{esn.SolverInv},
	}
}

// Fields lists the fields from fastest to slowest varying
// in the output of Enumerate.
func (set *ParamSet) Fields() []string {
	return []string{
		"Solver", "Ridge", "LeakRate", "InputScaling", "WSparsity",
		"InputSparsity", "SpectralRadius", "Layers", "ReservoirSize",
	}
}

// Enumerate returns every combination of parameters.
// Reservoir size varies slowest and depth next.
func (set *ParamSet) Enumerate() []Param {
	return enumerate(*set, []Param{{}}, set.Fields()).([]Param)
}

// Field returns the value of a field as a string.
func (p Param) Field(name string) string {
	switch name {
	case "ReservoirSize":
		return fmt.Sprint(p.ReservoirSize)
	case "Layers":
		return fmt.Sprint(p.Layers)
	case "SpectralRadius":
		return fmt.Sprint(p.SpectralRadius)
	case "InputSparsity":
		return fmt.Sprint(p.InputSparsity)
	case "WSparsity":
		return fmt.Sprint(p.WSparsity)
	case "InputScaling":
		return fmt.Sprint(p.InputScaling)
	case "LeakRate":
		return fmt.Sprint(p.LeakRate)
	case "Ridge":
		return fmt.Sprint(p.Ridge)
	case "Solver":
		return p.Solver
	default:
		return ""
	}
}
