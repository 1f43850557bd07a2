package cmd

import (
	"fmt"

	"github.com/piwi3910/StoneQuote/internal/project"
	"github.com/spf13/cobra"
)

var exportOutputs exportTargets

var exportCmd = &cobra.Command{
	Use:   "export [contract.json]",
	Short: "Export a saved contract as cutting sheet, labels or spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOutputs.pdf == "" && exportOutputs.xlsx == "" && exportOutputs.labels == "" {
			return fmt.Errorf("nothing to export: pass --pdf, --xlsx or --labels")
		}
		c, err := project.LoadContract(args[0])
		if err != nil {
			return err
		}
		printContract(cmd.OutOrStdout(), c, appCfg.Currency)
		return writeOutputs(c, exportOutputs)
	},
}

func init() {
	exportOutputs.register(exportCmd, false)
	rootCmd.AddCommand(exportCmd)
}
