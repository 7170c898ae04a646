package textfeat

import (
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrEmpty is returned when a document contains no tokens.
var ErrEmpty = errors.New("document contains no tokens")

// Transform maps a document to a batch of feature sequences.
// Each sequence has one row per time step and Dim() columns.
type Transform interface {
	Transform(text string) ([]*mat.Dense, error)
	Dim() int
}

// Filter rewrites text before tokenization.
type Filter interface {
	Filter(text string) string
}

// Embedder maps a token sequence to a len(tokens) x Dim() matrix.
type Embedder interface {
	Embed(tokens []string) (*mat.Dense, error)
	Dim() int
}

// Pipeline is a Transform built from filters, a tokenizer and an embedder.
type Pipeline struct {
	Filters []Filter
	// Tokenize defaults to Tokens if nil.
	Tokenize func(string) []string
	Embedder Embedder
}

func (p *Pipeline) Transform(text string) ([]*mat.Dense, error) {
	for _, f := range p.Filters {
		text = f.Filter(text)
	}
	tokenize := p.Tokenize
	if tokenize == nil {
		tokenize = Tokens
	}
	toks := tokenize(text)
	if len(toks) == 0 {
		return nil, ErrEmpty
	}
	x, err := p.Embedder.Embed(toks)
	if err != nil {
		return nil, err
	}
	return []*mat.Dense{x}, nil
}

func (p *Pipeline) Dim() int {
	return p.Embedder.Dim()
}

// RemoveLines replaces line breaks with spaces.
type RemoveLines struct{}

var lineReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (RemoveLines) Filter(text string) string {
	return lineReplacer.Replace(text)
}

// Lower converts text to lower case.
type Lower struct{}

func (Lower) Filter(text string) string {
	return strings.ToLower(text)
}
