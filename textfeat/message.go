package textfeat

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Spec describes an Embedder in a form which can be stored in a parameter file.
type Spec interface {
	New() (Embedder, error)
}

// GloveSpec loads word vectors from File.
type GloveSpec struct {
	File string
}

func (s *GloveSpec) New() (Embedder, error) {
	return LoadGlove(s.File)
}

// HashedSpec describes a Hashed embedder.
type HashedSpec struct {
	Dimension int
	Seed      uint64
	Lower     bool
}

func (s *HashedSpec) New() (Embedder, error) {
	if s.Dimension <= 0 {
		return nil, errors.Errorf("hashed embedding: invalid dimension %d", s.Dimension)
	}
	return Hashed{Dimension: s.Dimension, Seed: s.Seed, Lower: s.Lower}, nil
}

var DefaultEmbedders = NewFactory()

func init() {
	DefaultEmbedders.Register("glove", func() Spec { return new(GloveSpec) })
	DefaultEmbedders.Register("hashed", func() Spec { return new(HashedSpec) })
}

type Factory struct {
	types map[string]func() Spec
}

func NewFactory() *Factory {
	return &Factory{types: make(map[string]func() Spec)}
}

func (f *Factory) Register(name string, create func() Spec) {
	f.types[name] = create
}

func (f *Factory) New(name string) (Spec, error) {
	create, ok := f.types[name]
	if !ok {
		return nil, errors.Errorf("unknown embedding type: %q", name)
	}
	return create(), nil
}

// Message is a Spec tagged with its type.
type Message struct {
	Type string
	Spec Spec
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type string
		Spec json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	spec, err := DefaultEmbedders.New(raw.Type)
	if err != nil {
		return err
	}
	m.Type = raw.Type
	m.Spec = spec
	if len(raw.Spec) == 0 {
		return nil
	}
	return json.Unmarshal(raw.Spec, m.Spec)
}

// Pipeline constructs the embedder and joins lines before tokenizing,
// which is the transform used for author identification.
func (m Message) Pipeline() (*Pipeline, error) {
	if m.Spec == nil {
		return nil, errors.New("embedding not specified")
	}
	emb, err := m.Spec.New()
	if err != nil {
		return nil, errors.Wrapf(err, "create %s embedding", m.Type)
	}
	return &Pipeline{Filters: []Filter{RemoveLines{}}, Embedder: emb}, nil
}
