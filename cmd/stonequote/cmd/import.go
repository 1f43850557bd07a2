package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/StoneQuote/internal/importer"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/project"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import stones into the local inventory",
	Long: `Imports catalog stones from a CSV or Excel price list, or merges a
JSON inventory file. Stones whose code is already in the inventory are
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	dxfUnit     string
	dxfKind     string
	dxfStone    string
	dxfSystem   string
	dxfOutput   string
	dxfQuantity int
)

var importDXFCmd = &cobra.Command{
	Use:   "import-dxf [drawing.dxf]",
	Short: "Turn the closed outlines of a stair drawing into drafts",
	Long: `Reads the closed outlines of a DXF stair drawing and writes one draft
per distinct outline size. The output can be passed to "stonequote quote".`,
	Args: cobra.ExactArgs(1),
	RunE: runImportDXF,
}

func init() {
	importDXFCmd.Flags().StringVarP(&dxfUnit, "unit", "u", string(importer.DXFMillimeters), "drawing unit (mm, cm, m)")
	importDXFCmd.Flags().StringVarP(&dxfKind, "kind", "k", string(model.PartTread), "stair part kind of every outline")
	importDXFCmd.Flags().StringVarP(&dxfStone, "stone", "s", "", "stone code for the drafts")
	importDXFCmd.Flags().StringVar(&dxfSystem, "system", "dxf", "stair system id")
	importDXFCmd.Flags().IntVarP(&dxfQuantity, "quantity", "q", 0, "quantity per outline (default: identical outlines in the drawing)")
	importDXFCmd.Flags().StringVarP(&dxfOutput, "output", "o", "", "write drafts here instead of stdout")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(importDXFCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	inv, path, err := project.LoadOrCreateInventory(appCfg.InventoryPath)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	out := cmd.OutOrStdout()

	if strings.EqualFold(filepath.Ext(args[0]), ".json") {
		before := len(inv.Stones)
		inv, err = project.ImportInventory(args[0], inv)
		if err != nil {
			return fmt.Errorf("failed to import inventory: %w", err)
		}
		if err := project.SaveInventory(path, inv); err != nil {
			return err
		}
		fmt.Fprintf(out, "Merged %d stones into %s\n", len(inv.Stones)-before, path)
		return nil
	}

	res := importer.ImportFile(args[0])
	printMessages(out, res.Errors, res.Warnings)
	if len(res.Stones) == 0 {
		return fmt.Errorf("no stones imported from %s", args[0])
	}
	added := res.ApplyToInventory(&inv)
	if err := project.SaveInventory(path, inv); err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d of %d stones into %s\n", added, len(res.Stones), path)
	return nil
}

func runImportDXF(cmd *cobra.Command, args []string) error {
	kind := model.PartKind(dxfKind)
	if !kind.Valid() {
		return fmt.Errorf("unknown stair part %q", dxfKind)
	}
	res := importer.ImportStairDXF(args[0], importer.DXFUnit(dxfUnit))
	printMessages(cmd.ErrOrStderr(), res.Errors, res.Warnings)
	if len(res.Outlines) == 0 {
		return fmt.Errorf("no closed outlines found in %s", args[0])
	}

	drafts := outlineDrafts(res.Outlines, kind)
	data, err := json.MarshalIndent(drafts, "", "  ")
	if err != nil {
		return err
	}
	if dxfOutput == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return os.WriteFile(dxfOutput, data, 0644)
}

func outlineDrafts(outlines []importer.StairOutline, kind model.PartKind) []model.StairPartDraft {
	drafts := make([]model.StairPartDraft, 0, len(outlines))
	for _, o := range outlines {
		d := appCfg.NewDraft(dxfSystem, kind)
		d.Quantity = dxfQuantity
		if dxfStone != "" {
			d.Stone = &model.StoneProduct{Code: dxfStone}
		}
		o.ApplyTo(&d)
		drafts = append(drafts, d)
	}
	return drafts
}

func printMessages(w io.Writer, errs, warnings []string) {
	for _, e := range errs {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}
