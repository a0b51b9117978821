package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/hmm"
	"github.com/spf13/cobra"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var model modelFlags
	var threshold float64
	var maxIterations int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "train <datafile>",
		Short: "Estimate model parameters with Baum-Welch",
		Args:  cobra.ExactArgs(1),
		Example: `  hmm train data.txt --states 2
  hmm train data.txt --states 3 --threshold 1e-4 --max-iterations 200 --seed 7
  hmm train data.txt --symbols 0,1 --initial 0.5,0.5 --transitions 0.5,0.5,0.5,0.5 --emissions 0.3,0.7,0.6,0.4 -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataFile := args[0]
			config := &hmm.TrainConfig{
				States:        model.states,
				Threshold:     threshold,
				MaxIterations: maxIterations,
				Seed:          seed,
				Symbols:       model.symbols,
			}
			if model.given() {
				if len(model.symbols) == 0 {
					return fmt.Errorf("--symbols is required with an explicit starting model")
				}
				initial, err := model.build(0)
				if err != nil {
					return err
				}
				config.Initial = initial
			}

			slog.Info("Training", "data", dataFile, "states", model.states)
			start := time.Now()
			res, err := hmm.Train(dataFile, config)
			if err != nil {
				return err
			}
			slog.Info("Training finished",
				"state", res.State,
				"iterations", res.Iterations,
				"log_likelihood", res.LogLikelihood,
				"sequences", res.Sequences,
				"duration", time.Since(start))
			if res.Fallbacks > 0 {
				slog.Warn("Some rows had no expected counts and kept their previous values", "rows", res.Fallbacks)
			}

			output, err := json.MarshalIndent(res.Params(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return err
		},
	}

	model.register(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", 1e-6, "Stop when the log-likelihood changes by at most this much")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 1000, "Iteration cap (0 or less for none)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for the random starting model")
	return cmd
}
