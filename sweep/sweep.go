// Package sweep runs a grid search over stacked echo state networks
// on author identification problems and reports macro F1 scores.
package sweep

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"

	"github.com/pan-webis-de/schaetti18-authorship-attribution/data"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/esn"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/metrics"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/textfeat"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Problem identifies a problem directory and the encoding of its texts.
type Problem struct {
	Name     string
	Encoding string
}

type Options struct {
	// Root of the collection.
	Root      string
	Problems  []Problem
	Transform textfeat.Transform
	Params    []Param

	// Number of random reservoirs per configuration.
	Samples int
	Seed    uint64

	// Progress and results are printed to Out, os.Stdout if nil.
	Out io.Writer

	// Done, if not nil, is called with every finalized cell.
	Done func(Cell) error
}

// AuthorIndex maps author names to consecutive integers in order.
func AuthorIndex(authors []string) map[string]int {
	index := make(map[string]int, len(authors))
	for i, a := range authors {
		index[a] = i
	}
	return index
}

type example struct {
	name  string
	x     *mat.Dense
	class int
}

// problemData contains the transformed documents of a problem.
// Unknown documents whose true author is not a candidate
// have class len(authors).
type problemData struct {
	name    string
	authors []string
	train   []example
	test    []example
}

func loadProblem(root string, prob Problem, phi textfeat.Transform) (*problemData, error) {
	train, err := data.NewTIRA(root, prob.Name, phi, true, prob.Encoding)
	if err != nil {
		return nil, err
	}
	test, err := data.NewTIRA(root, prob.Name, phi, false, prob.Encoding)
	if err != nil {
		return nil, err
	}
	truth, err := data.LoadGroundTruth(root, prob.Name)
	if err != nil {
		return nil, err
	}

	d := &problemData{name: prob.Name, authors: train.Authors()}
	index := AuthorIndex(d.authors)
	for i := 0; i < train.Len(); i++ {
		x, err := train.At(i)
		if err != nil {
			return nil, err
		}
		d.train = append(d.train, example{train.LastText(), x.Features, index[x.Author]})
	}
	for i := 0; i < test.Len(); i++ {
		x, err := test.At(i)
		if err != nil {
			return nil, err
		}
		name := test.LastText()
		author, ok := truth[name]
		if !ok {
			return nil, errors.Errorf("%s: no ground truth for %s", prob.Name, name)
		}
		class, ok := index[author]
		if !ok {
			class = len(d.authors)
		}
		d.test = append(d.test, example{name, x.Features, class})
	}
	log.Printf("%s: %d authors, %d training documents, %d test documents",
		prob.Name, len(d.authors), len(d.train), len(d.test))
	return d, nil
}

// evaluate trains a network on the candidate documents and
// returns the macro F1 score on the unknown documents.
func evaluate(d *problemData, p Param, inputDim int, ws []*mat.Dense, rng *rand.Rand) (float64, error) {
	net, err := esn.New(p.Config(inputDim, len(d.authors)), ws, rng)
	if err != nil {
		return 0, err
	}
	defer net.Reset()
	for _, x := range d.train {
		if err := net.TrainClass(x.x, x.class); err != nil {
			return 0, errors.Wrapf(err, "train on %s", x.name)
		}
	}
	if err := net.Finalize(); err != nil {
		return 0, err
	}
	yTrue := make([]int, len(d.test))
	yPred := make([]int, len(d.test))
	for i, x := range d.test {
		pred, err := net.Predict(x.x)
		if err != nil {
			return 0, errors.Wrapf(err, "predict %s", x.name)
		}
		yTrue[i], yPred[i] = x.class, pred
	}
	return metrics.F1Macro(yTrue, yPred), nil
}

// Run evaluates every configuration on every problem Samples times.
// The recurrent weights of a sample are shared by all problems.
// The first error aborts the search.
func Run(ctx context.Context, opts Options) (*Table, error) {
	if opts.Samples <= 0 {
		return nil, errors.Errorf("invalid number of samples: %d", opts.Samples)
	}
	if len(opts.Problems) == 0 {
		return nil, errors.New("no problems")
	}
	if opts.Transform == nil {
		return nil, errors.New("no transform")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	problems := make([]*problemData, len(opts.Problems))
	for i, prob := range opts.Problems {
		d, err := loadProblem(opts.Root, prob, opts.Transform)
		if err != nil {
			return nil, err
		}
		problems[i] = d
	}

	rng := rand.New(rand.NewPCG(opts.Seed, 0x853c49e6748fea9b))
	dim := opts.Transform.Dim()
	table := NewTable()
	for _, p := range opts.Params {
		fmt.Fprintf(out, "Testing Stacked-ESN with %d layers of size %d\n", p.Layers, p.ReservoirSize)
		for n := 0; n < opts.Samples; n++ {
			if err := ctx.Err(); err != nil {
				return table, err
			}
			ws := esn.GenerateWs(p.Layers, p.ReservoirSize, p.WSparsity, rng)
			scores := make([]float64, len(problems))
			for i, d := range problems {
				f1, err := evaluate(d, p, dim, ws, rng)
				if err != nil {
					return nil, errors.Wrapf(err, "param %s, sample %d, %s", p.Key(), n, d.name)
				}
				scores[i] = f1
			}
			score := stat.Mean(scores, nil)
			log.Printf("param %s, sample %d: macro F1 %.4f", p.Key(), n, score)
			table.Add(p, score)
		}
		c := table.Finalize(p)
		fmt.Fprintf(out, "\tMacro average F1 score for reservoir size %d and %d layers : %g (max %g)\n",
			p.ReservoirSize, p.Layers, c.Mean, c.Max)
		if opts.Done != nil {
			if err := opts.Done(c); err != nil {
				return table, err
			}
		}
	}
	return table, nil
}
