// Package cli wires the kanaforge command tree together.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kanaforge/kanaforge/internal/cli/commands"
	"github.com/kanaforge/kanaforge/internal/config"
)

// NewRootCmd builds the root command with all subcommands attached.
// Configuration is resolved once in PersistentPreRunE and handed to
// subcommands through the command context.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "kanaforge",
		Short:         "Evolutionary search for chorded kana keyboard layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// help and completion never need a resolved config.
			switch cmd.Name() {
			case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(commands.WithConfig(cmd.Context(), cfg))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "path to a config file (default: ./kanaforge.yaml)")
	flags.Uint64("seed", config.DefaultSeed, "seed for the deterministic random source")
	flags.Int("generations", config.DefaultGenerations, "number of generations to run")
	flags.Int("population-size", 0, "layouts per generation")
	flags.Int("workers", 0, "parallel evaluation workers")
	flags.Float64("cross-probability", 0, "probability of producing children by crossover")
	flags.Float64("mutate-probability", 0, "probability of producing a child by mutation")
	flags.Float64("save-percent", 0, "fraction of the ranking kept as the elite pool")
	flags.String("conjunctions", "", "path to the conjunction corpus (text<TAB>count)")
	flags.String("frequencies", "", "path to the character frequency file (char<TAB>count)")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		commands.NewOptimizeCmd(),
		commands.NewRenderCmd(),
		commands.NewCorpusCmd(),
		commands.NewVersionCmd(),
	)
	return root
}

// Execute runs the root command and reports failures on stderr.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
