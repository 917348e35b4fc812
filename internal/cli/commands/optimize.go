package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kanaforge/kanaforge/internal/corpus"
	"github.com/kanaforge/kanaforge/internal/render"
	"github.com/kanaforge/kanaforge/pkg/layout"
	"github.com/kanaforge/kanaforge/pkg/optimizer"
	"github.com/kanaforge/kanaforge/pkg/scoring"
)

// NewOptimizeCmd creates the optimize command, the main entry point of the
// tool. It runs the generational search over the configured corpus and
// prints the best layout found.
func NewOptimizeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search for a low-cost kana layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			if cfg.Conjunctions == "" || cfg.Frequencies == "" {
				return errors.New("optimize requires --conjunctions and --frequencies")
			}

			freq, err := corpus.LoadFrequencies(cfg.Frequencies)
			if err != nil {
				return fmt.Errorf("load frequencies: %w", err)
			}
			conjunctions, err := corpus.LoadConjunctions(cfg.Conjunctions)
			if err != nil {
				return fmt.Errorf("load conjunctions: %w", err)
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			connTable := scoring.NewConnectionTable(layout.Standard())
			rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

			opt, err := optimizer.New(cfg.Optimizer(), connTable, freq, rng, logger)
			if err != nil {
				return err
			}

			var best optimizer.Result
			for g := 0; g < cfg.Generations; g++ {
				res, err := opt.Advance(cmd.Context(), rng, conjunctions)
				if err != nil {
					return fmt.Errorf("generation %d: %w", g+1, err)
				}
				if best.Best == nil || res.BestScore < best.BestScore {
					best = res
				}
			}
			if best.Best == nil {
				return errors.New("no generations were run")
			}

			printSummary(cmd, cfg.Seed, cfg.Generations, best)
			fmt.Fprintln(cmd.OutOrStdout(), render.Planes(best.Best))

			if outPath != "" {
				if err := writeDocument(outPath, cfg.Seed, cfg.Generations, best); err != nil {
					return err
				}
				logger.Info("layout written", slog.String("path", outPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the best layout as YAML to this file")
	return cmd
}

func printSummary(cmd *cobra.Command, seed uint64, generations int, best optimizer.Result) {
	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Metric", "Value"})
	w.AppendRow(table.Row{"Seed", seed})
	w.AppendRow(table.Row{"Generations", generations})
	w.AppendRow(table.Row{"Best found in generation", best.Stats.Generation})
	w.AppendRow(table.Row{"Best score", best.BestScore})
	w.AppendRow(table.Row{"Generation mean", fmt.Sprintf("%.1f", best.Stats.Mean)})
	w.AppendRow(table.Row{"Generation stddev", fmt.Sprintf("%.1f", best.Stats.StdDev)})
	w.AppendRow(table.Row{"Discarded candidates", best.Stats.Discarded})
	w.Render()
}

func writeDocument(path string, seed uint64, generations int, best optimizer.Result) error {
	doc, ok := render.NewDocument(best.Best, seed, generations, best.BestScore)
	if !ok {
		return errors.New("best layout does not cover the full catalog")
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}
