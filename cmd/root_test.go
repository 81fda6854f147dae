package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENABLE_CATEGORIZATION", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Cleanup(func() { resetFlags(rootCmd, categorizeCmd, providersCmd) })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCategorizeCommand_Disabled(t *testing.T) {
	out, err := executeCommand(t, "", "categorize", "Booked", "a", "flight")
	require.NoError(t, err)
	assert.Contains(t, out, "No categories assigned.")
}

func TestCategorizeCommand_DisabledJSON(t *testing.T) {
	out, err := executeCommand(t, "", "categorize", "--json", "Booked a flight")
	require.NoError(t, err)
	assert.JSONEq(t, `{"categories": []}`, strings.TrimSpace(out))
}

func TestCategorizeCommand_ReadsStdin(t *testing.T) {
	out, err := executeCommand(t, "Renewed my passport\n", "categorize", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"categories": []}`, strings.TrimSpace(out))
}

func TestCategorizeCommand_RequiresMemory(t *testing.T) {
	_, err := executeCommand(t, "", "categorize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory text is required")
}

func TestProvidersCommand(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	out, err := executeCommand(t, "", "providers", "--log-level", "error")
	require.NoError(t, err)
	for _, p := range []string{"openai", "zai", "ollama", "gemini"} {
		assert.Contains(t, out, p)
	}
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "Categorization is disabled")
}
