package commands

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/kanaforge/kanaforge/internal/render"
	"github.com/kanaforge/kanaforge/pkg/keymap"
)

const renderAttempts = 10000

// NewRenderCmd creates the render command. It generates a random valid
// layout from the configured seed and prints its key planes, which is
// useful for sanity-checking constraints without running a full search.
func NewRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Generate a random valid layout and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

			km, err := generateValid(rng)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Planes(km))
			return nil
		},
	}
}

// generateValid draws layouts until one satisfies every placement
// constraint, giving up after a bounded number of attempts.
func generateValid(rng *rand.Rand) (*keymap.Keymap, error) {
	for attempt := 0; attempt < renderAttempts; attempt++ {
		km, err := keymap.Generate(rng)
		if err != nil {
			continue
		}
		if km.MeetRequirements() {
			return km, nil
		}
	}
	return nil, fmt.Errorf("no valid layout found after %d attempts", renderAttempts)
}
