package cmd

import (
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the supported LLM providers and their settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"", "Provider", "Model", "Endpoint", "Credentials"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetAutoWrapText(false)

		for _, info := range appInstance.ProviderInfos() {
			marker := ""
			if info.Selected {
				marker = color.CyanString("*")
			}
			creds := color.GreenString("ok")
			if !info.HasCredential {
				creds = color.RedString("missing")
			}
			table.Append([]string{marker, string(info.Provider), info.Model, info.Endpoint, creds})
		}
		table.Render()

		if !appInstance.CategorizationService.Enabled() {
			cmd.Println(color.YellowString("Categorization is disabled (ENABLE_CATEGORIZATION is not \"true\")."))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
