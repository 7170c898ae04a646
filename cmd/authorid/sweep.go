package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jvlmdr/go-file/fileutil"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/data"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/results"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/sweep"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/textfeat"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

var (
	sweepLang        string
	sweepProblems    []string
	sweepMaxProblems int
	sweepSamples     int
	sweepSeed        uint64
	sweepOut         string
	sweepDB          string
	sweepEmbeddings  string
	sweepHashedDim   int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [params.json]",
	Short: "Evaluate every configuration of a parameter grid",
	Long: `Evaluate every configuration of a parameter grid.

The grid is read from params.json if given. Otherwise reservoir sizes
400 to 700 and 1 to 4 layers are searched. Configurations which already
have a perf file in the output directory are not evaluated again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.StringVar(&sweepLang, "lang", "en", "Language of the problems (empty for all)")
	f.StringSliceVar(&sweepProblems, "problems", nil, "Problems to evaluate (overrides --lang)")
	f.IntVar(&sweepMaxProblems, "max-problems", 2, "Maximum number of problems in the language (0 for all)")
	f.IntVar(&sweepSamples, "samples", 1, "Number of random reservoirs per configuration")
	f.Uint64Var(&sweepSeed, "seed", 1, "Random seed")
	f.StringVar(&sweepOut, "out", "", "Directory for perf files and perfs.txt (none if empty)")
	f.StringVar(&sweepDB, "db", "", "SQLite database to which results are saved (none if empty)")
	f.StringVar(&sweepEmbeddings, "embeddings", "", "Word vector file, or JSON embedding message (*.json)")
	f.IntVar(&sweepHashedDim, "hashed-dim", 100, "Dimension of hashed word vectors if no embeddings are given")
}

func runSweep(cmd *cobra.Command, args []string) error {
	paramset := sweep.DefaultParamSet()
	if len(args) == 1 {
		paramset = new(sweep.ParamSet)
		if err := fileutil.LoadExt(args[0], paramset); err != nil {
			return errors.Wrapf(err, "load params %s", args[0])
		}
	}
	params := paramset.Enumerate()
	if len(params) == 0 {
		return errors.New("empty parameter grid")
	}
	for _, p := range params {
		log.Printf("%s\t%s", p.Key(), p.ID())
	}

	problems, err := selectProblems()
	if err != nil {
		return err
	}
	transform, err := loadTransform()
	if err != nil {
		return err
	}

	table := sweep.NewTable()
	todo := params
	var done func(sweep.Cell) error
	if sweepOut != "" {
		if err := os.MkdirAll(sweepOut, 0o755); err != nil {
			return err
		}
		todo, err = results.LoadCached(sweepOut, params, table)
		if err != nil {
			return err
		}
		done = func(c sweep.Cell) error { return results.SaveCell(sweepOut, c) }
	}

	if len(todo) > 0 {
		computed, err := sweep.Run(cmd.Context(), sweep.Options{
			Root:      rootDir,
			Problems:  problems,
			Transform: transform,
			Params:    todo,
			Samples:   sweepSamples,
			Seed:      sweepSeed,
			Out:       cmd.OutOrStdout(),
			Done:      done,
		})
		if err != nil {
			return err
		}
		for _, c := range computed.Cells() {
			table.Put(c)
		}
	}

	out := cmd.OutOrStdout()
	mean, max := table.Matrices(paramset.ReservoirSize, paramset.Layers)
	fmt.Fprintf(out, "Rows: reservoir sizes %v, columns: layers %v\n", paramset.ReservoirSize, paramset.Layers)
	fmt.Fprintf(out, "Mean macro F1\n%v\n", mat.Formatted(mean, mat.Squeeze()))
	fmt.Fprintf(out, "Max macro F1\n%v\n", mat.Formatted(max, mat.Squeeze()))

	if sweepOut != "" {
		if err := results.WritePerfs(sweepOut, table, paramset.Fields()); err != nil {
			return err
		}
	}
	if sweepDB != "" {
		store, err := results.Open(sweepDB)
		if err != nil {
			return err
		}
		defer store.Close()
		run := results.NewRun()
		if err := store.Save(cmd.Context(), run, table); err != nil {
			return errors.Wrap(err, "save results")
		}
		log.Printf("saved run %s to %s", run, sweepDB)
	}
	return nil
}

func selectProblems() ([]sweep.Problem, error) {
	entries, err := data.Problems(rootDir)
	if err != nil {
		return nil, err
	}
	if len(sweepProblems) > 0 {
		byName := make(map[string]data.ProblemEntry)
		for _, e := range entries {
			byName[e.ProblemName] = e
		}
		var probs []sweep.Problem
		for _, name := range sweepProblems {
			e, ok := byName[name]
			if !ok {
				return nil, errors.Errorf("problem not in collection: %s", name)
			}
			probs = append(probs, sweep.Problem{Name: name, Encoding: e.Encoding})
		}
		return probs, nil
	}
	entries = data.ProblemsFor(entries, sweepLang)
	if sweepMaxProblems > 0 && len(entries) > sweepMaxProblems {
		entries = entries[:sweepMaxProblems]
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("no problems in language %q", sweepLang)
	}
	probs := make([]sweep.Problem, len(entries))
	for i, e := range entries {
		probs[i] = sweep.Problem{Name: e.ProblemName, Encoding: e.Encoding}
	}
	return probs, nil
}

func loadTransform() (textfeat.Transform, error) {
	var msg textfeat.Message
	switch {
	case sweepEmbeddings == "":
		msg = textfeat.Message{Type: "hashed", Spec: &textfeat.HashedSpec{Dimension: sweepHashedDim}}
	case strings.EqualFold(filepath.Ext(sweepEmbeddings), ".json"):
		if err := fileutil.LoadExt(sweepEmbeddings, &msg); err != nil {
			return nil, errors.Wrapf(err, "load embedding message %s", sweepEmbeddings)
		}
	default:
		msg = textfeat.Message{Type: "glove", Spec: &textfeat.GloveSpec{File: sweepEmbeddings}}
	}
	log.Printf("embedding: %s", msg.Type)
	return msg.Pipeline()
}
