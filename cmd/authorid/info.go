package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/pan-webis-de/schaetti18-authorship-attribution/data"
	"github.com/spf13/cobra"
)

var infoRaw bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the problems of a collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if infoRaw {
			v, err := data.CollectionInfos(rootDir)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		ps, err := data.Problems(rootDir)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROBLEM\tLANGUAGE\tENCODING\tAUTHORS")
		for _, p := range ps {
			train, err := data.NewTIRA(rootDir, p.ProblemName, nil, true, p.Encoding)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ProblemName, p.Language, p.Encoding, len(train.Authors()))
		}
		return w.Flush()
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoRaw, "raw", false, "Print collection-info.json as is")
}
