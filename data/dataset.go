package data

import (
	"encoding/json"

	"github.com/pan-webis-de/schaetti18-authorship-attribution/textfeat"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DocumentSet is an ordered list of documents which
// can be used for training or testing a classifier.
type DocumentSet interface {
	Len() int
	// Record gives the file and label of a document
	// without reading it.
	Record(i int) Record
	// At reads a document.
	At(i int) (Example, error)
}

// Record identifies a document on disk.
// Author is empty if the author is unknown.
type Record struct {
	Path   string
	Author string
}

// Example is a document which has been read from disk.
// If the set has a transform, Features contains the transformed
// text and Text is empty. Otherwise Features is nil.
type Example struct {
	Record
	Text     string
	Features *mat.Dense
}

// Load constructs a DocumentSet given its name and parameters (JSON).
func Load(name, specJSON string, transform textfeat.Transform) (DocumentSet, error) {
	switch name {
	case "tira":
		var spec TIRASpec
		if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
			return nil, errors.Wrap(err, "decode tira spec")
		}
		return NewTIRA(spec.Root, spec.Problem, transform, spec.Train, spec.Encoding)
	default:
		return nil, errors.Errorf("unknown dataset: %s", name)
	}
}
