package clix

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("file", "", "")
	flags.String("provider", "", "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestReadMemory_Args(t *testing.T) {
	got, err := ReadMemory(newFlags(t), []string{"Booked", "a", "flight "}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "Booked a flight", got)
}

func TestReadMemory_Stdin(t *testing.T) {
	got, err := ReadMemory(newFlags(t), nil, strings.NewReader("  from a pipe\n"))
	require.NoError(t, err)
	assert.Equal(t, "from a pipe", got)
}

func TestReadMemory_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.txt")
	require.NoError(t, os.WriteFile(path, []byte("Dentist on Tuesday\n"), 0o644))

	got, err := ReadMemory(newFlags(t, "--file", path), []string{"ignored"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dentist on Tuesday", got)
}

func TestReadMemory_MissingFile(t *testing.T) {
	_, err := ReadMemory(newFlags(t, "--file", filepath.Join(t.TempDir(), "nope.txt")), nil, nil)
	assert.Error(t, err)
}

func TestReadMemory_NothingGiven(t *testing.T) {
	got, err := ReadMemory(newFlags(t), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseProvider(t *testing.T) {
	assert.Equal(t, "ollama", ParseProvider(newFlags(t, "--provider", " Ollama ")))
	assert.Empty(t, ParseProvider(newFlags(t)))
}
