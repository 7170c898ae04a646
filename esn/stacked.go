package esn

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNotTrained is returned by Forward before Finalize.
var ErrNotTrained = errors.New("readout has not been finalized")

// layer is a leaky-integrator reservoir:
//	x(t) = (1-a) x(t-1) + a tanh(Win u(t) + W x(t-1) + b)
type layer struct {
	win  *mat.Dense // size x input
	w    *mat.Dense // size x size
	bias []float64
	leak float64
}

func (l *layer) size() int {
	r, _ := l.w.Dims()
	return r
}

// run returns the states for an input sequence (one row per time step).
// The state is zero before the first step.
func (l *layer) run(u mat.Matrix) *mat.Dense {
	steps, _ := u.Dims()
	n := l.size()
	var in mat.Dense
	in.Mul(u, l.win.T())
	states := mat.NewDense(steps, n, nil)
	x := mat.NewVecDense(n, nil)
	wx := mat.NewVecDense(n, nil)
	a := l.leak
	for t := 0; t < steps; t++ {
		wx.MulVec(l.w, x)
		for i := 0; i < n; i++ {
			v := math.Tanh(in.At(t, i) + wx.AtVec(i) + l.bias[i])
			x.SetVec(i, (1-a)*x.AtVec(i)+a*v)
		}
		states.SetRow(t, x.RawVector().Data)
	}
	return states
}

// StackedESN is a stack of reservoirs whose concatenated states
// feed a linear readout. Layer i > 0 is driven by the states of layer i-1.
//
// Training accumulates the normal equations of the readout one sequence
// at a time; Finalize solves them.
type StackedESN struct {
	cfg    Config
	layers []*layer

	xTx  *mat.SymDense
	xTy  *mat.Dense
	wout *mat.Dense
	// Number of time steps accumulated.
	steps int
}

// New constructs a network from recurrent matrices (see GenerateWs).
// The matrices are copied and scaled to cfg.SpectralRadius.
// Input weights and biases are drawn from rng.
func New(cfg Config, ws []*mat.Dense, rng *rand.Rand) (*StackedESN, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(ws) != len(cfg.HiddenDims) {
		return nil, errors.Errorf("%d recurrent matrices for %d layers", len(ws), len(cfg.HiddenDims))
	}
	s := &StackedESN{cfg: cfg}
	in := cfg.InputDim
	for i, n := range cfg.HiddenDims {
		if r, c := ws[i].Dims(); r != n || c != n {
			return nil, errors.Errorf("layer %d: recurrent matrix is %dx%d, want %dx%d", i, r, c, n, n)
		}
		w, err := scaleToRadius(ws[i], cfg.SpectralRadius)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		bias := make([]float64, n)
		if cfg.BiasScaling != 0 {
			copy(bias, randSparse(1, n, 1, cfg.BiasScaling, rng).RawRowView(0))
		}
		s.layers = append(s.layers, &layer{
			win:  randSparse(n, in, cfg.InputSparsity, cfg.InputScaling, rng),
			w:    w,
			bias: bias,
			leak: cfg.LeakRates[i],
		})
		in = n
	}
	s.Reset()
	return s, nil
}

// Config returns the configuration of the network.
func (s *StackedESN) Config() Config { return s.cfg }

// States returns the readout inputs for a sequence:
// the states of all layers side by side followed by a column of ones.
func (s *StackedESN) States(u mat.Matrix) (*mat.Dense, error) {
	steps, dim := u.Dims()
	if steps == 0 {
		return nil, errors.New("empty input sequence")
	}
	if dim != s.cfg.InputDim {
		return nil, errors.Errorf("input dimension %d, want %d", dim, s.cfg.InputDim)
	}
	x := mat.NewDense(steps, s.cfg.stateDim(), nil)
	var (
		in  mat.Matrix = u
		off int
	)
	for _, l := range s.layers {
		h := l.run(in)
		n := l.size()
		x.Slice(0, steps, off, off+n).(*mat.Dense).Copy(h)
		off += n
		in = h
	}
	for t := 0; t < steps; t++ {
		x.Set(t, off, 1)
	}
	return x, nil
}

// Train accumulates a sequence u (steps x InputDim)
// with targets y (steps x OutputDim).
func (s *StackedESN) Train(u, y mat.Matrix) error {
	steps, k := y.Dims()
	if k != s.cfg.OutputDim {
		return errors.Errorf("target dimension %d, want %d", k, s.cfg.OutputDim)
	}
	if r, _ := u.Dims(); r != steps {
		return errors.Errorf("%d input steps and %d target steps", r, steps)
	}
	x, err := s.States(u)
	if err != nil {
		return err
	}
	s.xTx.SymRankK(s.xTx, 1, x.T())
	var xy mat.Dense
	xy.Mul(x.T(), y)
	s.xTy.Add(s.xTy, &xy)
	s.steps += steps
	s.wout = nil
	return nil
}

// TrainClass accumulates a sequence whose target at every time step
// is the indicator vector of class c.
func (s *StackedESN) TrainClass(u mat.Matrix, c int) error {
	if c < 0 || c >= s.cfg.OutputDim {
		return errors.Errorf("class %d out of range [0, %d)", c, s.cfg.OutputDim)
	}
	steps, _ := u.Dims()
	if steps == 0 {
		return errors.New("empty input sequence")
	}
	y := mat.NewDense(steps, s.cfg.OutputDim, nil)
	for t := 0; t < steps; t++ {
		y.Set(t, c, 1)
	}
	return s.Train(u, y)
}

// Finalize solves for the readout weights.
func (s *StackedESN) Finalize() error {
	if s.steps == 0 {
		return errors.New("no training data")
	}
	n := s.cfg.stateDim()
	a := mat.NewSymDense(n, nil)
	a.CopySym(s.xTx)
	if s.cfg.Ridge != 0 {
		for i := 0; i < n; i++ {
			a.SetSym(i, i, a.At(i, i)+s.cfg.Ridge)
		}
	}
	var (
		w   *mat.Dense
		err error
	)
	switch s.cfg.Solver {
	case SolverCG:
		w, err = solveConjGrad(a, s.xTy, s.cfg.CGTol, s.cfg.CGIter)
	default:
		w, err = solveDirect(a, s.xTy)
	}
	if err != nil {
		return errors.Wrap(err, "solve readout")
	}
	s.wout = w
	return nil
}

// Trained reports whether Finalize has succeeded since the last update.
func (s *StackedESN) Trained() bool {
	return s.wout != nil
}

// Forward returns the readout outputs (steps x OutputDim) for a sequence.
func (s *StackedESN) Forward(u mat.Matrix) (*mat.Dense, error) {
	if s.wout == nil {
		return nil, ErrNotTrained
	}
	x, err := s.States(u)
	if err != nil {
		return nil, err
	}
	var y mat.Dense
	y.Mul(x, s.wout)
	return &y, nil
}

// Reset discards the training statistics and the readout.
// The reservoirs are unchanged.
func (s *StackedESN) Reset() {
	n := s.cfg.stateDim()
	s.xTx = mat.NewSymDense(n, nil)
	s.xTy = mat.NewDense(n, s.cfg.OutputDim, nil)
	s.wout = nil
	s.steps = 0
}
