package esn

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const eps = 1e-9

func epsEq(want, got, eps float64) bool {
	return math.Abs(want-got) <= eps
}

func sliceEq(t *testing.T, want, got []float64, eps float64) bool {
	if len(want) != len(got) {
		t.Errorf("lengths differ: want %d, got %d", len(want), len(got))
		return false
	}
	equal := true
	for i := range want {
		if !epsEq(want[i], got[i], eps) {
			t.Errorf("at %d: want %.4g, got %.4g", i, want[i], got[i])
			equal = false
		}
	}
	return equal
}

func testMatEq(t *testing.T, want, got mat.Matrix, eps float64) {
	m, n := want.Dims()
	p, q := got.Dims()
	if m != p || n != q {
		t.Fatalf("matrix sizes differ: want %dx%d, got %dx%d", m, n, p, q)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			u, v := want.At(i, j), got.At(i, j)
			if !epsEq(u, v, eps) {
				t.Errorf("at (%d, %d): want %.6g, got %.6g", i, j, u, v)
			}
		}
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func testConfig(inputDim, outputDim int, hidden ...int) Config {
	return Config{
		InputDim:       inputDim,
		HiddenDims:     hidden,
		OutputDim:      outputDim,
		SpectralRadius: 0.9,
		InputSparsity:  1,
		WSparsity:      0.5,
		InputScaling:   0.5,
		LeakRates:      LeakRates(len(hidden), 0.5),
		Ridge:          1e-3,
		Solver:         SolverInv,
	}
}

func TestLeakRates(t *testing.T) {
	sliceEq(t, []float64{0.1}, LeakRates(1, 0.1), eps)
	sliceEq(t, []float64{1, 0.7, 0.4, 0.1}, LeakRates(4, 0.1), 1e-12)
	sliceEq(t, []float64{1, 0.25}, LeakRates(2, 0.25), eps)
	if r := LeakRates(0, 0.1); len(r) != 0 {
		t.Errorf("want no rates, got %v", r)
	}
}

func TestGenerateWs(t *testing.T) {
	const size = 100
	ws := GenerateWs(3, size, 0.2, newRand(1))
	if len(ws) != 3 {
		t.Fatalf("want 3 matrices, got %d", len(ws))
	}
	for k, w := range ws {
		var nonzero int
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				v := w.At(i, j)
				if v < -1 || v > 1 {
					t.Fatalf("matrix %d: at (%d, %d): %g outside [-1, 1]", k, i, j, v)
				}
				if v != 0 {
					nonzero++
				}
			}
		}
		frac := float64(nonzero) / (size * size)
		if frac < 0.15 || frac > 0.25 {
			t.Errorf("matrix %d: fraction of connections %.3f, want about 0.2", k, frac)
		}
	}
	if mat.Equal(ws[0], ws[1]) {
		t.Error("layers have identical matrices")
	}

	zero := GenerateWs(1, 10, 0, newRand(1))
	if mat.Max(zero[0]) != 0 || mat.Min(zero[0]) != 0 {
		t.Error("zero sparsity gave connections")
	}
}

func TestSpectralRadius(t *testing.T) {
	cases := []struct {
		w    *mat.Dense
		want float64
	}{
		{mat.NewDense(2, 2, []float64{2, 0, 0, -3}), 3},
		{mat.NewDense(2, 2, []float64{0, -2, 2, 0}), 2},
		{mat.NewDense(2, 2, []float64{2, 1, 1, 2}), 3},
	}
	for _, c := range cases {
		got, err := SpectralRadius(c.w)
		if err != nil {
			t.Fatal(err)
		}
		if !epsEq(c.want, got, 1e-6) {
			t.Errorf("want %g, got %g", c.want, got)
		}
	}
}

func TestNew_sharedWs(t *testing.T) {
	ws := GenerateWs(2, 30, 0.3, newRand(2))
	orig := mat.DenseCopyOf(ws[0])
	cfg := testConfig(4, 2, 30, 30)
	s, err := New(cfg, ws, newRand(3))
	if err != nil {
		t.Fatal(err)
	}
	// Matrices are shared between networks and must not be modified.
	testMatEq(t, orig, ws[0], 0)
	for i, l := range s.layers {
		rho, err := SpectralRadius(l.w)
		if err != nil {
			t.Fatal(err)
		}
		if !epsEq(cfg.SpectralRadius, rho, 1e-6) {
			t.Errorf("layer %d: spectral radius: want %g, got %g", i, cfg.SpectralRadius, rho)
		}
	}
	if _, err := New(cfg, ws[:1], newRand(3)); err == nil {
		t.Error("expected error for missing recurrent matrix")
	}
	if _, err := New(testConfig(4, 2, 20, 30), ws, newRand(3)); err == nil {
		t.Error("expected error for recurrent matrix of wrong size")
	}
}

func TestConfig_validate(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.InputDim = 0 },
		func(c *Config) { c.OutputDim = 0 },
		func(c *Config) { c.HiddenDims = nil; c.LeakRates = nil },
		func(c *Config) { c.LeakRates = []float64{0.5} },
		func(c *Config) { c.LeakRates = []float64{0, 0.5} },
		func(c *Config) { c.Solver = "pinv" },
	}
	for i, modify := range bad {
		cfg := testConfig(3, 2, 10, 10)
		modify(&cfg)
		if err := cfg.validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestStates(t *testing.T) {
	cfg := testConfig(3, 2, 10, 7, 5)
	s, err := New(cfg, []*mat.Dense{
		GenerateWs(1, 10, 0.5, newRand(4))[0],
		GenerateWs(1, 7, 0.5, newRand(5))[0],
		GenerateWs(1, 5, 0.5, newRand(6))[0],
	}, newRand(7))
	if err != nil {
		t.Fatal(err)
	}
	// Zero input and zero bias keep the state at zero.
	x, err := s.States(mat.NewDense(6, 3, nil))
	if err != nil {
		t.Fatal(err)
	}
	r, c := x.Dims()
	if r != 6 || c != 23 {
		t.Fatalf("size: want 6x23, got %dx%d", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c-1; j++ {
			if x.At(i, j) != 0 {
				t.Fatalf("at (%d, %d): want 0, got %g", i, j, x.At(i, j))
			}
		}
		if x.At(i, c-1) != 1 {
			t.Errorf("bias at %d: want 1, got %g", i, x.At(i, c-1))
		}
	}

	u := mat.NewDense(4, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1})
	x, err = s.States(u)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 22; j++ {
			if v := x.At(i, j); math.Abs(v) >= 1 {
				t.Errorf("at (%d, %d): state %g not in (-1, 1)", i, j, v)
			}
		}
	}
	// States do not carry over between sequences.
	y, err := s.States(u)
	if err != nil {
		t.Fatal(err)
	}
	testMatEq(t, x, y, 0)

	if _, err := s.States(mat.NewDense(2, 4, nil)); err == nil {
		t.Error("expected error for wrong input dimension")
	}
}

// sequence returns a noisy constant sequence which identifies class c.
func sequence(c, dim, steps int, rng *rand.Rand) *mat.Dense {
	u := mat.NewDense(steps, dim, nil)
	for t := 0; t < steps; t++ {
		for j := 0; j < dim; j++ {
			u.Set(t, j, 0.05*rng.NormFloat64())
		}
		u.Set(t, c, 1+u.At(t, c))
	}
	return u
}

func trainToy(t *testing.T, cfg Config) (*StackedESN, *rand.Rand) {
	rng := newRand(11)
	var ws []*mat.Dense
	for _, n := range cfg.HiddenDims {
		ws = append(ws, GenerateWs(1, n, cfg.WSparsity, rng)[0])
	}
	s, err := New(cfg, ws, rng)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 12; i++ {
		c := i % cfg.OutputDim
		if err := s.TrainClass(sequence(c, cfg.InputDim, 15, rng), c); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Finalize(); err != nil {
		t.Fatal(err)
	}
	return s, rng
}

func TestStackedESN_Predict(t *testing.T) {
	for _, hidden := range [][]int{{20}, {20, 15}, {10, 10, 10}} {
		cfg := testConfig(3, 3, hidden...)
		s, rng := trainToy(t, cfg)
		for i := 0; i < 9; i++ {
			c := i % 3
			got, err := s.Predict(sequence(c, 3, 15, rng))
			if err != nil {
				t.Fatal(err)
			}
			if got != c {
				t.Errorf("layers %v: want class %d, got %d", hidden, c, got)
			}
		}
	}
}

func TestStackedESN_solvers(t *testing.T) {
	cfg := testConfig(3, 3, 15)
	cfg.Ridge = 1e-2
	direct, _ := trainToy(t, cfg)
	cfg.Solver = SolverCG
	cfg.CGTol = 1e-9
	cfg.CGIter = 2000
	iter, _ := trainToy(t, cfg)
	u := sequence(1, 3, 10, newRand(99))
	want, err := direct.Forward(u)
	if err != nil {
		t.Fatal(err)
	}
	got, err := iter.Forward(u)
	if err != nil {
		t.Fatal(err)
	}
	testMatEq(t, want, got, 1e-4)
}

func TestStackedESN_Reset(t *testing.T) {
	s, _ := trainToy(t, testConfig(3, 3, 10))
	if !s.Trained() {
		t.Fatal("not trained after Finalize")
	}
	s.Reset()
	if s.Trained() {
		t.Error("trained after Reset")
	}
	if _, err := s.Forward(mat.NewDense(2, 3, nil)); err != ErrNotTrained {
		t.Errorf("want ErrNotTrained, got %v", err)
	}
	if err := s.Finalize(); err == nil {
		t.Error("expected error when finalizing without data")
	}
	if err := s.TrainClass(mat.NewDense(2, 3, nil), 3); err == nil {
		t.Error("expected error for class out of range")
	}
}

func TestStackedESN_emptySequence(t *testing.T) {
	s, _ := trainToy(t, testConfig(3, 3, 10))
	empty := &mat.Dense{}
	if err := s.TrainClass(empty, 0); err == nil {
		t.Error("TrainClass: expected error for empty sequence")
	}
	if _, err := s.States(empty); err == nil {
		t.Error("States: expected error for empty sequence")
	}
	if _, err := s.Forward(empty); err == nil {
		t.Error("Forward: expected error for empty sequence")
	}
	if _, err := s.Predict(empty); err == nil {
		t.Error("Predict: expected error for empty sequence")
	}
}

func TestMinMax(t *testing.T) {
	y := mat.NewDense(2, 2, []float64{-1, 1, 3, 0})
	MinMax(y)
	testMatEq(t, mat.NewDense(2, 2, []float64{0, 0.5, 1, 0.25}), y, eps)

	c := mat.NewDense(1, 3, []float64{2, 2, 2})
	MinMax(c)
	testMatEq(t, mat.NewDense(1, 3, nil), c, 0)
}

func TestNormalizeRows(t *testing.T) {
	y := mat.NewDense(3, 2, []float64{1, 3, 0, 0, 0.5, 0})
	NormalizeRows(y)
	testMatEq(t, mat.NewDense(3, 2, []float64{0.25, 0.75, 0.5, 0.5, 1, 0}), y, eps)
}

func TestMaxAverageThroughTime(t *testing.T) {
	y := mat.NewDense(3, 3, []float64{
		0.9, 0.1, 0,
		0, 0.6, 0.4,
		0, 0.6, 0.4,
	})
	if got := MaxAverageThroughTime(y); got != 1 {
		t.Errorf("want 1, got %d", got)
	}
}
