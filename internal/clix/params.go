package clix

import (
	"fmt"
	"io"
	"os"
	"strings"

	"memcat/internal/util"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

// ReadMemory resolves the memory text for a command. The --file flag wins,
// then positional args joined by spaces, then stdin when it is not a terminal.
// The text is passed through util.CleanText.
func ReadMemory(flags *pflag.FlagSet, args []string, stdin io.Reader) (string, error) {
	if path, _ := flags.GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read memory file %s: %w", path, err)
		}
		return util.CleanText(data, path)
	}

	if len(args) > 0 {
		return util.CleanText([]byte(strings.Join(args, " ")), "arguments")
	}

	if stdin == nil || isTerminal(stdin) {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read memory from stdin: %w", err)
	}
	return util.CleanText(data, "stdin")
}

// ParseProvider returns the --provider flag value, trimmed and lowercased.
// An empty result means "use the configured provider".
func ParseProvider(flags *pflag.FlagSet) string {
	provider, _ := flags.GetString("provider")
	return strings.ToLower(strings.TrimSpace(provider))
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
