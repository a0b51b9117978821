package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	c := New("test")
	var out bytes.Buffer
	c.rootCmd.SetOut(&out)
	c.rootCmd.SetArgs(append([]string{"-s"}, args...))
	require.NoError(t, c.Run())
	return out.String()
}

func TestGenerateTrainDecode(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")
	run(t, "generate", data, "--sequences", "200", "--length", "15", "--seed", "3")

	var params struct {
		Symbols     []string    `json:"symbols"`
		Initial     []float64   `json:"initial"`
		Transitions [][]float64 `json:"transitions"`
		Emissions   [][]float64 `json:"emissions"`
		Iterations  int         `json:"iterations"`
		State       string      `json:"state"`
	}
	out := run(t, "train", data, "--states", "2", "--symbols", "0,1", "--max-iterations", "5")
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	assert.Equal(t, []string{"0", "1"}, params.Symbols)
	assert.Len(t, params.Initial, 2)
	assert.Len(t, params.Transitions, 2)
	assert.Len(t, params.Emissions[0], 2)
	assert.LessOrEqual(t, params.Iterations, 5)
	assert.NotEmpty(t, params.State)

	var decodings []struct {
		Path       []string    `json:"path"`
		Symbols    []string    `json:"symbols"`
		Posteriors [][]float64 `json:"posteriors"`
	}
	out = run(t, "decode", data, "--symbols", "0,1", "--state-names", "A,B",
		"--initial", "0.5,0.5", "--transitions", "0.1,0.9,0.2,0.8",
		"--emissions", "0.2,0.8,0.9,0.1", "--posterior")
	require.NoError(t, json.Unmarshal([]byte(out), &decodings))
	require.Len(t, decodings, 200)
	for _, d := range decodings {
		require.Len(t, d.Path, 15)
		require.Len(t, d.Posteriors, 15)
		for _, name := range d.Path {
			assert.Contains(t, []string{"A", "B"}, name)
		}
	}
}

func TestDecodeRequiresSymbols(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")
	run(t, "generate", data, "--sequences", "3", "--length", "4")

	c := New("test")
	c.rootCmd.SetOut(&bytes.Buffer{})
	c.rootCmd.SetErr(&bytes.Buffer{})
	c.rootCmd.SetArgs([]string{"-s", "decode", data})
	assert.Error(t, c.Run())
}

func TestTrainRejectsBadStartingModel(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")
	run(t, "generate", data, "--sequences", "3", "--length", "4")

	c := New("test")
	c.rootCmd.SetOut(&bytes.Buffer{})
	c.rootCmd.SetErr(&bytes.Buffer{})
	c.rootCmd.SetArgs([]string{"-s", "train", data, "--symbols", "0,1", "--transitions", "0.5,0.5,0.5"})
	assert.Error(t, c.Run())
}
