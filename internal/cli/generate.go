package cli

import (
	"log/slog"

	"github.com/happyhackingspace/hmm"
	"github.com/happyhackingspace/hmm/markov"
	"github.com/spf13/cobra"
)

func (c *CLI) newGenerateCommand() *cobra.Command {
	var model modelFlags
	var sequences, length int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "generate <outfile>",
		Short: "Sample a corpus from a model (default: two biased dice)",
		Args:  cobra.ExactArgs(1),
		Example: `  hmm generate data.txt --sequences 1000 --length 20
  hmm generate data.txt --symbols H,T --emissions 0.5,0.5,0.9,0.1 --seed 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := markov.DiceModel()
			if model.given() || len(model.symbols) > 0 {
				var err error
				if m, err = model.build(m.NumSymbols()); err != nil {
					return err
				}
			}

			err := hmm.Generate(args[0], m, &hmm.GenerateConfig{
				Sequences: sequences,
				Length:    length,
				Seed:      seed,
				Symbols:   model.symbols,
			})
			if err != nil {
				return err
			}
			slog.Info("Corpus written", "path", args[0], "sequences", sequences, "length", length)
			return nil
		},
	}

	model.register(cmd)
	cmd.Flags().IntVar(&sequences, "sequences", 1000, "Number of sequences")
	cmd.Flags().IntVar(&length, "length", 20, "Observations per sequence")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	return cmd
}
