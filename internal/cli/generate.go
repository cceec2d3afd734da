package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/generate"
	nestio "github.com/matzehuels/antnest/pkg/io"
)

// generateCommand creates the generate command for random nests.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		density string
	)
	opts := generate.Options{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random solvable nest",
		Long: `Generate a random solvable nest.

The generator builds a spanning tree over the rooms, adds extra tunnels
according to --density and retries until the structural constraints hold.
The same --seed always produces the same nest.`,
		Example: `  antnest generate --ants 20 --rooms 10 -o big.txt
  antnest generate --multi-path --avoid-bottlenecks --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Density = generate.Density(density)
			if !cmd.Flags().Changed("seed") {
				opts.Seed = uint64(time.Now().UnixNano())
			}
			return c.runGenerate(cmd.OutOrStdout(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "nest name (default generated_<seed>)")
	cmd.Flags().IntVar(&opts.Agents, "ants", 0, "number of ants (default 10)")
	cmd.Flags().IntVar(&opts.Rooms, "rooms", 0, "number of intermediate rooms (default 6)")
	cmd.Flags().IntVar(&opts.MinCapacity, "min-capacity", 0, "smallest room capacity (default 1)")
	cmd.Flags().IntVar(&opts.MaxCapacity, "max-capacity", 0, "largest room capacity (default 3)")
	cmd.Flags().StringVar(&density, "density", string(generate.DensityNormal), "extra tunnels: sparse, normal, dense")
	cmd.Flags().BoolVar(&opts.NoDirect, "no-direct", false, "forbid a source-sink tunnel")
	cmd.Flags().BoolVar(&opts.MultiPath, "multi-path", false, "require at least two routes")
	cmd.Flags().BoolVar(&opts.AvoidBottlenecks, "avoid-bottlenecks", false, "allow at most one bottleneck tunnel")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default time based)")

	return cmd
}

func (c *CLI) runGenerate(w io.Writer, opts generate.Options, output string) error {
	prog := newProgress(c.Logger)
	n, err := generate.Generate(opts)
	if err != nil {
		return err
	}
	a := analysis.Analyze(n)
	prog.done(fmt.Sprintf("Generated %s: %d rooms, %d tunnels, %s", n.Name(), n.NodeCount(), n.EdgeCount(), a.Quality))

	if output == "" {
		return nestio.WriteNest(w, n)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := nestio.WriteNest(f, n); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	printSuccess("Generated %s", n.Name())
	printFile(output)
	printNextStep("Solve it", "antnest solve "+output)
	return nil
}
