package cli

import (
	"github.com/happyhackingspace/hmm"
	"github.com/happyhackingspace/hmm/markov"
	"github.com/spf13/cobra"
)

// modelFlags describes a model on the command line. Matrices are given
// row-major.
type modelFlags struct {
	states      int
	symbols     []string
	stateNames  []string
	initial     []float64
	transitions []float64
	emissions   []float64
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.states, "states", 2, "Number of hidden states")
	cmd.Flags().StringSliceVar(&f.symbols, "symbols", nil, "Emission alphabet in column order (default: order of first appearance)")
	cmd.Flags().StringSliceVar(&f.stateNames, "state-names", nil, "Labels for the hidden states")
	cmd.Flags().Float64SliceVar(&f.initial, "initial", nil, "Initial state distribution")
	cmd.Flags().Float64SliceVar(&f.transitions, "transitions", nil, "Transition matrix, row-major")
	cmd.Flags().Float64SliceVar(&f.emissions, "emissions", nil, "Emission matrix, row-major")
}

// given reports whether any model parameter was set.
func (f *modelFlags) given() bool {
	return f.initial != nil || f.transitions != nil || f.emissions != nil || f.stateNames != nil
}

// build creates the model described by the flags. The alphabet size comes
// from --symbols when set, otherwise from nesym.
func (f *modelFlags) build(nesym int) (*markov.Model, error) {
	if len(f.symbols) > 0 {
		nesym = len(f.symbols)
	}
	return hmm.BuildModel(f.states, nesym, f.initial, f.transitions, f.emissions, f.stateNames)
}
