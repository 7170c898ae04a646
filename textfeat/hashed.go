package textfeat

import (
	"math/rand/v2"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Hashed embeds every token as a pseudo-random vector
// drawn uniformly from [-1, 1]^Dimension.
// The vector depends only on the token, and on Seed.
type Hashed struct {
	Dimension int
	Seed      uint64
	// Fold tokens to lower case before hashing?
	Lower bool
}

func (h Hashed) Dim() int { return h.Dimension }

func (h Hashed) Embed(toks []string) (*mat.Dense, error) {
	if len(toks) == 0 {
		return nil, ErrEmpty
	}
	x := mat.NewDense(len(toks), h.Dimension, nil)
	for i, tok := range toks {
		x.SetRow(i, h.vector(tok))
	}
	return x, nil
}

func (h Hashed) vector(tok string) []float64 {
	if h.Lower {
		tok = strings.ToLower(tok)
	}
	key := xxhash.Sum64String(tok)
	u := distuv.Uniform{Min: -1, Max: 1, Src: rand.NewPCG(key, h.Seed)}
	vec := make([]float64, h.Dimension)
	for i := range vec {
		vec[i] = u.Rand()
	}
	return vec
}
