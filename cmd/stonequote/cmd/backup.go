package cmd

import (
	"fmt"

	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/project"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up or restore config, inventory and templates",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write all local data to one JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, _, err := project.LoadOrCreateInventory(appCfg.InventoryPath)
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		templates, err := loadTemplateStore()
		if err != nil {
			return err
		}
		if err := project.ExportAllData(args[0], appCfg, inv, templates); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Restore local data from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backup, err := project.ImportAllData(args[0])
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(configPath(), backup.Config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		invPath := backup.Config.InventoryPath
		if invPath == "" {
			if invPath, err = project.DefaultInventoryPath(); err != nil {
				return err
			}
		}
		if err := project.SaveInventory(invPath, backup.Inventory); err != nil {
			return err
		}
		tplPath, err := project.DefaultTemplatePath()
		if err != nil {
			return err
		}
		if err := project.SaveTemplates(tplPath, backup.Templates); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s (version %s)\n", args[0], backup.Version)
		return nil
	},
}

func loadTemplateStore() (model.TemplateStore, error) {
	path, err := project.DefaultTemplatePath()
	if err != nil {
		return model.TemplateStore{}, err
	}
	return project.LoadTemplates(path)
}

func init() {
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}
