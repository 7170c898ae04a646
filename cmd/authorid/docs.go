package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/pan-webis-de/schaetti18-authorship-attribution/data"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	docsProblems []string
	docsTest     bool
	docsEncoding string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List the documents of a problem",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(docsProblems) == 0 {
			return errors.New("no problem given")
		}
		docs := data.NewUnion()
		for _, prob := range docsProblems {
			spec, err := json.Marshal(data.TIRASpec{
				Root:     rootDir,
				Problem:  prob,
				Train:    !docsTest,
				Encoding: docsEncoding,
			})
			if err != nil {
				return err
			}
			set, err := data.Load("tira", string(spec), nil)
			if err != nil {
				return err
			}
			docs.Append(set)
		}
		out := cmd.OutOrStdout()
		for i := 0; i < docs.Len(); i++ {
			x, err := docs.At(i)
			if err != nil {
				return err
			}
			author := x.Author
			if author == "" {
				author = "?"
			}
			rel, err := filepath.Rel(rootDir, x.Path)
			if err != nil {
				rel = x.Path
			}
			fmt.Fprintf(out, "%s\t%s\t%d\n", filepath.ToSlash(rel), author, utf8.RuneCountInString(x.Text))
		}
		return nil
	},
}

func init() {
	docsCmd.Flags().StringSliceVar(&docsProblems, "problem", nil, "Problem names, e.g. problem00001")
	docsCmd.Flags().BoolVar(&docsTest, "test", false, "List the unknown documents instead of the candidates'")
	docsCmd.Flags().StringVar(&docsEncoding, "encoding", "", "Text encoding (default UTF-8)")
}
