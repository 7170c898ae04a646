package data

import (
	"path/filepath"

	"github.com/jvlmdr/go-file/fileutil"
	"github.com/pkg/errors"
)

// CollectionInfos returns the content of root/collection-info.json
// without interpreting it. The file is read on every call.
func CollectionInfos(root string) (interface{}, error) {
	var v interface{}
	if err := fileutil.LoadExt(filepath.Join(root, "collection-info.json"), &v); err != nil {
		return nil, errors.Wrap(err, "load collection info")
	}
	return v, nil
}

// ProblemEntry is an element of a PAN-18 collection-info.json.
type ProblemEntry struct {
	ProblemName string `json:"problem-name"`
	Language    string `json:"language"`
	Encoding    string `json:"encoding"`
}

// Problems reads collection-info.json as a list of problems.
func Problems(root string) ([]ProblemEntry, error) {
	var ps []ProblemEntry
	if err := fileutil.LoadExt(filepath.Join(root, "collection-info.json"), &ps); err != nil {
		return nil, errors.Wrap(err, "load collection info")
	}
	return ps, nil
}

// ProblemsFor selects the problems in a language.
// All problems are returned if lang is empty.
func ProblemsFor(ps []ProblemEntry, lang string) []ProblemEntry {
	if lang == "" {
		return ps
	}
	var sel []ProblemEntry
	for _, p := range ps {
		if p.Language == lang {
			sel = append(sel, p)
		}
	}
	return sel
}

// Unknown is the true author of a document
// which was written by none of the candidates.
const Unknown = "<UNK>"

type groundTruth struct {
	GroundTruth []struct {
		UnknownText string `json:"unknown-text"`
		TrueAuthor  string `json:"true-author"`
	} `json:"ground_truth"`
}

// LoadGroundTruth reads root/problem/ground-truth.json and returns
// the true author of every unknown document, keyed by file name.
func LoadGroundTruth(root, problem string) (map[string]string, error) {
	var gt groundTruth
	if err := fileutil.LoadExt(filepath.Join(root, problem, "ground-truth.json"), &gt); err != nil {
		return nil, errors.Wrapf(err, "load ground truth of %s", problem)
	}
	truth := make(map[string]string, len(gt.GroundTruth))
	for _, x := range gt.GroundTruth {
		truth[x.UnknownText] = x.TrueAuthor
	}
	return truth, nil
}
