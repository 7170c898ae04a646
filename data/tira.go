package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jvlmdr/go-file/fileutil"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/textfeat"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

type TIRASpec struct {
	// Directory containing collection-info.json and one directory per problem.
	Root    string
	Problem string
	// Candidate documents if true, unknown documents otherwise.
	Train bool
	// Text encoding, UTF-8 if empty.
	Encoding string
}

// ProblemInfo is the content of problem-info.json.
// CandidateAuthors is nil if the key is missing and empty if the list is.
type ProblemInfo struct {
	UnknownFolder    string            `json:"unknown-folder"`
	CandidateAuthors []CandidateAuthor `json:"candidate-authors"`
}

type CandidateAuthor struct {
	AuthorName string `json:"author-name"`
}

// TIRA is an author identification problem in the layout of the
// TIRA/PAN evaluation platform:
//	root/problem/problem-info.json
//	root/problem/<author-name>/*
//	root/problem/<unknown-folder>/*
// Files are listed in lexicographic order within each directory.
type TIRA struct {
	root      string
	problem   string
	transform textfeat.Transform
	train     bool
	enc       encoding.Encoding

	info     ProblemInfo
	authors  []string
	texts    []Record
	lastText string
}

// NewTIRA loads the list of documents of a problem.
// The transform may be nil.
func NewTIRA(root, problem string, transform textfeat.Transform, train bool, enc string) (*TIRA, error) {
	e, err := lookupEncoding(enc)
	if err != nil {
		return nil, err
	}
	d := &TIRA{
		root:      root,
		problem:   problem,
		transform: transform,
		train:     train,
		enc:       e,
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *TIRA) load() error {
	dir := filepath.Join(d.root, d.problem)
	if err := fileutil.LoadExt(filepath.Join(dir, "problem-info.json"), &d.info); err != nil {
		return errors.Wrapf(err, "load problem info of %s", d.problem)
	}

	if d.info.UnknownFolder == "" {
		return errors.Errorf("%s: problem-info.json has no unknown-folder", d.problem)
	}
	if d.info.CandidateAuthors == nil {
		return errors.Errorf("%s: problem-info.json has no candidate-authors", d.problem)
	}

	if !d.train {
		files, err := listFiles(filepath.Join(dir, d.info.UnknownFolder))
		if err != nil {
			return err
		}
		for _, file := range files {
			d.texts = append(d.texts, Record{Path: file})
		}
		return nil
	}

	// An author listed twice has its documents listed twice.
	seen := make(map[string]bool)
	for i, candidate := range d.info.CandidateAuthors {
		name := candidate.AuthorName
		if name == "" {
			return errors.Errorf("%s: candidate %d has no author-name", d.problem, i)
		}
		if !seen[name] {
			seen[name] = true
			d.authors = append(d.authors, name)
		}
		files, err := listFiles(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		for _, file := range files {
			d.texts = append(d.texts, Record{Path: file, Author: name})
		}
	}
	return nil
}

// listFiles returns the regular files in a directory sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func (d *TIRA) Len() int {
	return len(d.texts)
}

// Authors returns the candidate authors in order of first appearance.
// It is empty for the unknown documents.
func (d *TIRA) Authors() []string {
	return d.authors
}

// Info returns the problem description.
func (d *TIRA) Info() ProblemInfo {
	return d.info
}

func (d *TIRA) Record(i int) Record {
	return d.texts[i]
}

// LastText returns the file name of the last document read by At.
func (d *TIRA) LastText() string {
	return d.lastText
}

func (d *TIRA) At(i int) (Example, error) {
	if i < 0 || i >= len(d.texts) {
		panic(fmt.Sprintf("index out of range: %d, length %d", i, len(d.texts)))
	}
	rec := d.texts[i]
	d.lastText = filepath.Base(rec.Path)

	text, err := readText(rec.Path, d.enc)
	if err != nil {
		return Example{}, err
	}
	if d.transform == nil {
		return Example{Record: rec, Text: text}, nil
	}
	batch, err := d.transform.Transform(text)
	if err != nil {
		return Example{}, errors.Wrapf(err, "transform %s", rec.Path)
	}
	// Remove the batch dimension.
	if len(batch) != 1 {
		return Example{}, errors.Errorf("transform %s: batch of %d sequences, want 1", rec.Path, len(batch))
	}
	return Example{Record: rec, Features: batch[0]}, nil
}
