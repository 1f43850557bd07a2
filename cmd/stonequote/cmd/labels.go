package cmd

import (
	"fmt"

	"github.com/piwi3910/StoneQuote/internal/export"
	"github.com/piwi3910/StoneQuote/internal/project"
	"github.com/spf13/cobra"
)

var labelsOutput string

var labelsCmd = &cobra.Command{
	Use:   "labels [contract.json]",
	Short: "Print QR labels for the usable remaining stones of a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := project.LoadContract(args[0])
		if err != nil {
			return err
		}
		infos := export.CollectLabelInfos(c.RemainingStones)
		if len(infos) == 0 {
			return fmt.Errorf("%s has no usable remaining stones", args[0])
		}
		if err := export.ExportLabels(labelsOutput, c.RemainingStones); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d labels to %s\n", len(infos), labelsOutput)
		return nil
	},
}

func init() {
	labelsCmd.Flags().StringVarP(&labelsOutput, "output", "o", "labels.pdf", "label sheet PDF")
	rootCmd.AddCommand(labelsCmd)
}
