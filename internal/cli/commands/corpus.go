package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kanaforge/kanaforge/internal/corpus"
	"github.com/kanaforge/kanaforge/pkg/kana"
)

// NewCorpusCmd creates the corpus command group.
func NewCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect corpus files",
	}
	cmd.AddCommand(newCorpusStatsCmd())
	return cmd
}

func newCorpusStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics for the configured corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			if cfg.Conjunctions == "" || cfg.Frequencies == "" {
				return errors.New("corpus stats requires --conjunctions and --frequencies")
			}

			freq, err := corpus.LoadFrequencies(cfg.Frequencies)
			if err != nil {
				return fmt.Errorf("load frequencies: %w", err)
			}
			conjunctions, err := corpus.LoadConjunctions(cfg.Conjunctions)
			if err != nil {
				return fmt.Errorf("load conjunctions: %w", err)
			}

			var covered int
			for _, f := range freq {
				if f > 0 {
					covered++
				}
			}

			var appearances uint64
			longest := 0
			for _, c := range conjunctions {
				appearances += uint64(c.Appearances())
				if n := len(c.Text()); n > longest {
					longest = n
				}
			}

			w := table.NewWriter()
			w.SetOutputMirror(cmd.OutOrStdout())
			w.SetStyle(table.StyleLight)
			w.AppendHeader(table.Row{"Metric", "Value"})
			w.AppendRow(table.Row{"Catalog characters", kana.TotalChars()})
			w.AppendRow(table.Row{"Characters with frequency", covered})
			w.AppendRow(table.Row{"Conjunctions", len(conjunctions)})
			w.AppendRow(table.Row{"Total appearances", appearances})
			w.AppendRow(table.Row{"Longest conjunction", longest})
			w.Render()
			return nil
		},
	}
}
