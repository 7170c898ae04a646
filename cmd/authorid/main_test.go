package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pan-webis-de/schaetti18-authorship-attribution/results"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, name string, v interface{}) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, b, 0o644))
}

func writeText(t *testing.T, name, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(text), 0o644))
}

func writeCollection(t *testing.T) string {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "collection-info.json"), []map[string]string{
		{"problem-name": "problem00001", "language": "en", "encoding": "UTF-8"},
		{"problem-name": "problem00002", "language": "fr", "encoding": "UTF-8"},
	})
	for _, prob := range []string{"problem00001", "problem00002"} {
		dir := filepath.Join(root, prob)
		writeJSON(t, filepath.Join(dir, "problem-info.json"), map[string]interface{}{
			"unknown-folder": "unknown",
			"candidate-authors": []map[string]string{
				{"author-name": "candidate00001"},
				{"author-name": "candidate00002"},
			},
		})
		writeText(t, filepath.Join(dir, "candidate00001", "known00001.txt"), "the cat sat on the mat")
		writeText(t, filepath.Join(dir, "candidate00001", "known00002.txt"), "the cat ate the rat")
		writeText(t, filepath.Join(dir, "candidate00002", "known00001.txt"), "a dog ran in a park")
		writeText(t, filepath.Join(dir, "candidate00002", "known00002.txt"), "a dog dug in a yard")
		writeText(t, filepath.Join(dir, "unknown", "unknown00001.txt"), "the cat sat")
		writeText(t, filepath.Join(dir, "unknown", "unknown00002.txt"), "a dog ran")
		writeJSON(t, filepath.Join(dir, "ground-truth.json"), map[string]interface{}{
			"ground_truth": []map[string]string{
				{"unknown-text": "unknown00001.txt", "true-author": "candidate00001"},
				{"unknown-text": "unknown00002.txt", "true-author": "candidate00002"},
			},
		})
	}
	return root
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestInfo(t *testing.T) {
	root := writeCollection(t)
	out := execute(t, "info", "--root", root)
	require.Contains(t, out, "problem00001")
	require.Contains(t, out, "fr")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
}

func TestDocs(t *testing.T) {
	root := writeCollection(t)
	out := execute(t, "docs", "--root", root, "--problem", "problem00001,problem00002")
	require.Equal(t, 8, strings.Count(out, "\n"))
	require.Contains(t, out, "problem00001/candidate00001/known00001.txt\tcandidate00001\t22")
	require.Contains(t, out, "problem00002/candidate00002/known00002.txt\tcandidate00002\t19")
}

func TestSweep(t *testing.T) {
	root := writeCollection(t)
	dir := t.TempDir()
	params := filepath.Join(dir, "params.json")
	writeJSON(t, params, map[string]interface{}{
		"ReservoirSize":  []int{10},
		"Layers":         []int{1, 2},
		"SpectralRadius": []float64{0.9},
		"InputSparsity":  []float64{1},
		"WSparsity":      []float64{0.5},
		"InputScaling":   []float64{0.5},
		"LeakRate":       []float64{0.5},
		"Ridge":          []float64{1e-3},
		"Solver":         []string{"inv"},
	})
	outDir := filepath.Join(dir, "out")
	db := filepath.Join(dir, "results.db")

	out := execute(t, "sweep", params, "--root", root, "--lang", "en",
		"--samples", "2", "--hashed-dim", "4", "--out", outDir, "--db", db)
	require.Contains(t, out, "Testing Stacked-ESN with 2 layers of size 10")
	require.Contains(t, out, "Mean macro F1")

	b, err := os.ReadFile(filepath.Join(outDir, "perfs.txt"))
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 3)
	matches, err := filepath.Glob(filepath.Join(outDir, "perf-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	store, err := results.Open(db)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	rows, err := store.Load(context.Background(), runs[0])
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Every configuration is cached now.
	out = execute(t, "sweep", params, "--root", root, "--lang", "en",
		"--hashed-dim", "4", "--out", outDir, "--db", "")
	require.NotContains(t, out, "Testing Stacked-ESN")
	require.Contains(t, out, "Max macro F1")
}
