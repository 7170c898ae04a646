package textfeat

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Glove is a table of pre-trained word vectors.
// Tokens which are not in the table map to the zero vector.
type Glove struct {
	dim  int
	vecs map[string][]float64
}

// LoadGlove reads word vectors in the GloVe text format,
// one word per line followed by its coordinates.
// The file may be compressed (see openFile).
func LoadGlove(name string) (*Glove, error) {
	r, err := openFile(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	g, err := ReadGlove(r)
	if err != nil {
		return nil, errors.Wrapf(err, "load word vectors %s", name)
	}
	log.Printf("loaded %d word vectors of dimension %d from %s", len(g.vecs), g.dim, name)
	return g, nil
}

// ReadGlove parses word vectors from r.
func ReadGlove(r io.Reader) (*Glove, error) {
	g := &Glove{vecs: make(map[string][]float64)}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var line int
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, errors.Errorf("line %d: no coordinates", line)
		}
		if g.dim == 0 {
			g.dim = len(fields) - 1
		}
		if len(fields)-1 != g.dim {
			return nil, errors.Errorf("line %d: dimension %d, want %d", line, len(fields)-1, g.dim)
		}
		vec := make([]float64, g.dim)
		for i, f := range fields[1:] {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			vec[i] = x
		}
		g.vecs[fields[0]] = vec
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if g.dim == 0 {
		return nil, errors.New("no word vectors")
	}
	return g, nil
}

func (g *Glove) Dim() int { return g.dim }

// Len returns the size of the vocabulary.
func (g *Glove) Len() int { return len(g.vecs) }

// Lookup tries the token as given and then in lower case.
func (g *Glove) Lookup(tok string) ([]float64, bool) {
	if vec, ok := g.vecs[tok]; ok {
		return vec, true
	}
	vec, ok := g.vecs[strings.ToLower(tok)]
	return vec, ok
}

func (g *Glove) Embed(toks []string) (*mat.Dense, error) {
	if len(toks) == 0 {
		return nil, ErrEmpty
	}
	x := mat.NewDense(len(toks), g.dim, nil)
	for i, tok := range toks {
		if vec, ok := g.Lookup(tok); ok {
			x.SetRow(i, vec)
		}
	}
	return x, nil
}
