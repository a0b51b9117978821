package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/hmm"
	"github.com/spf13/cobra"
)

func (c *CLI) newDecodeCommand() *cobra.Command {
	var model modelFlags
	var posterior bool

	cmd := &cobra.Command{
		Use:   "decode <datafile>",
		Short: "Find the most probable hidden states of each sequence",
		Args:  cobra.ExactArgs(1),
		Example: `  # Decode with the two biased dice model
  hmm decode data.txt --symbols 0,1 --state-names A,B \
    --initial 0.5,0.5 --transitions 0.1,0.9,0.2,0.8 --emissions 0.2,0.8,0.9,0.1

  # Include per-position posterior state probabilities
  hmm decode data.txt --symbols 0,1 --emissions 0.2,0.8,0.9,0.1 --posterior`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(model.symbols) == 0 {
				return fmt.Errorf("--symbols is required to map the data onto emission columns")
			}
			m, err := model.build(0)
			if err != nil {
				return err
			}

			start := time.Now()
			decodings, err := hmm.Decode(args[0], m, &hmm.DecodeConfig{
				Symbols:    model.symbols,
				Posteriors: posterior,
			})
			if err != nil {
				return err
			}
			slog.Debug("Decoding completed", "sequences", len(decodings), "duration", time.Since(start))

			output, err := json.MarshalIndent(decodings, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return err
		},
	}

	model.register(cmd)
	cmd.Flags().BoolVar(&posterior, "posterior", false, "Show posterior state probabilities")
	return cmd
}
