package cmd

import (
	"errors"
	"fmt"

	"memcat/internal/clix"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// categorizeCmd assigns categories to a single memory.
var categorizeCmd = &cobra.Command{
	Use:   "categorize [memory...]",
	Short: "Assign categories to a memory",
	Long: `Sends a memory to the configured LLM provider and prints the categories it
assigns. The memory is taken from --file, the positional arguments, or stdin.

Categorization must be enabled with ENABLE_CATEGORIZATION=true; otherwise no
categories are returned.`,
	Example: `  memcat categorize "Booked a ramen tour in Osaka for next spring"
  echo "Renewed my passport" | memcat categorize --provider ollama --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		memory, err := clix.ReadMemory(cmd.Flags(), args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if memory == "" {
			return errors.New("memory text is required (pass it as arguments, via --file, or on stdin)")
		}

		svc := appInstance.CategorizationService
		if !svc.Enabled() {
			log.Warn("Categorization is disabled; set ENABLE_CATEGORIZATION=true to enable it.")
		}

		categories, err := svc.Categorize(cmd.Context(), memory)
		if err != nil {
			return fmt.Errorf("failed to categorize memory: %w", err)
		}

		out := cmd.OutOrStdout()
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return json.NewEncoder(out).Encode(map[string][]string{"categories": categories})
		}

		if len(categories) == 0 {
			fmt.Fprintln(out, color.YellowString("No categories assigned."))
			return nil
		}
		fmt.Fprintf(out, "Categories (%s):\n", svc.Provider())
		for _, c := range categories {
			fmt.Fprintf(out, "  - %s\n", color.GreenString(c))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)

	categorizeCmd.Flags().String("provider", "", "Override the configured provider (openai, zai, ollama, gemini)")
	categorizeCmd.Flags().StringP("file", "f", "", "Read the memory from a file")
	categorizeCmd.Flags().Bool("json", false, "Print the result as JSON")
}
