package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/piwi3910/StoneQuote/internal/catalog"
	"github.com/piwi3910/StoneQuote/internal/export"
	"github.com/piwi3910/StoneQuote/internal/logging"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/project"
	"github.com/piwi3910/StoneQuote/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	quoteName     string
	quoteTemplate string
	saveTemplate  string
	outputs       exportTargets
)

// exportTargets are the optional files written after a quote.
type exportTargets struct {
	contract string
	pdf      string
	xlsx     string
	labels   string
}

func (t *exportTargets) register(cmd *cobra.Command, withContract bool) {
	if withContract {
		cmd.Flags().StringVar(&t.contract, "contract", "", "save the contract as JSON")
	}
	cmd.Flags().StringVar(&t.pdf, "pdf", "", "write the cutting sheet PDF")
	cmd.Flags().StringVar(&t.xlsx, "xlsx", "", "write the quote spreadsheet")
	cmd.Flags().StringVar(&t.labels, "labels", "", "write remnant labels PDF")
}

var quoteCmd = &cobra.Command{
	Use:   "quote [drafts.json]",
	Short: "Price stair part drafts and plan their cuts",
	Long: `Materializes stair part drafts into a contract and prints its line items.

The drafts file is a JSON array of stair part drafts. A draft may name
its stone by code only ({"stone": {"code": "TRV-60"}}); the stone is then
looked up in the catalog. With --template the drafts come from a saved
template instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteName, "name", "n", "", "contract name")
	quoteCmd.Flags().StringVarP(&quoteTemplate, "template", "t", "", "quote a saved template")
	quoteCmd.Flags().StringVar(&saveTemplate, "save-template", "", "save the drafts as a template with this name")
	outputs.register(quoteCmd, true)
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	drafts, err := loadQuoteDrafts(args)
	if err != nil {
		return err
	}

	cat, closeCatalog, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeCatalog()

	if err := resolveStones(ctx, cat, drafts); err != nil {
		return err
	}
	rates, err := catalog.ResolveRates(ctx, cat)
	if err != nil {
		return err
	}

	sess := session.New(rates, session.WithLogger(logging.Named("quote")), session.WithName(quoteName))
	for i, d := range drafts {
		if d.Mandatory == (model.MandatoryPricing{}) {
			d.Mandatory = model.DefaultMandatoryPricing(d.Kind, appCfg.DefaultMandatoryPercentage)
		}
		if _, err := sess.Materialize(d); err != nil {
			return fmt.Errorf("draft %d (%s): %w", i+1, d.Kind, err)
		}
	}

	if saveTemplate != "" {
		if err := saveDraftTemplate(saveTemplate, drafts); err != nil {
			return err
		}
	}

	contract := sess.Contract()
	printContract(cmd.OutOrStdout(), contract, appCfg.Currency)
	return writeOutputs(contract, outputs)
}

func loadQuoteDrafts(args []string) ([]model.StairPartDraft, error) {
	if quoteTemplate != "" {
		store, err := loadTemplateStore()
		if err != nil {
			return nil, err
		}
		t := store.FindByName(quoteTemplate)
		if t == nil {
			return nil, fmt.Errorf("template %q not found", quoteTemplate)
		}
		return t.ToDrafts(uuid.New().String()[:8]), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a drafts file or --template is required")
	}
	return readDrafts(args[0])
}

func readDrafts(path string) ([]model.StairPartDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read drafts: %w", err)
	}
	var drafts []model.StairPartDraft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse drafts: %w", err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%s contains no drafts", path)
	}
	return drafts, nil
}

// resolveStones replaces stones given by code only with the catalog entry.
func resolveStones(ctx context.Context, cat catalog.ProductCatalog, drafts []model.StairPartDraft) error {
	for i := range drafts {
		s := drafts[i].Stone
		if s == nil || s.ID != "" || s.Code == "" {
			continue
		}
		found, err := cat.SearchProducts(ctx, s.Code, "")
		if err != nil {
			return fmt.Errorf("failed to look up stone %s: %w", s.Code, err)
		}
		var match *model.StoneProduct
		for j := range found {
			if strings.EqualFold(found[j].Code, s.Code) {
				match = &found[j]
				break
			}
		}
		if match == nil {
			return fmt.Errorf("stone %s not found in catalog", s.Code)
		}
		drafts[i].Stone = match
	}
	return nil
}

func saveDraftTemplate(name string, drafts []model.StairPartDraft) error {
	path, err := project.DefaultTemplatePath()
	if err != nil {
		return err
	}
	store, err := project.LoadTemplates(path)
	if err != nil {
		return err
	}
	if old := store.FindByName(name); old != nil {
		store.Remove(old.ID)
	}
	store.Add(model.NewDraftTemplate(name, "", drafts))
	if err := project.SaveTemplates(path, store); err != nil {
		return err
	}
	logging.Info("saved template", zap.String("name", name), zap.String("path", path))
	return nil
}

func printContract(w io.Writer, c model.Contract, currency string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tPART\tSTONE\tSIZE\tQTY\tM²\tTOTAL")
	for _, p := range c.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2fm x %.1fcm\t%d\t%s\t%s\n",
			p.Type, p.PartType, p.StoneCode, p.LengthM, p.WidthCm, p.Quantity,
			export.FormatNumber(p.PricingSquareMeters, 3), export.FormatAmount(p.TotalPrice, currency))
	}
	tw.Flush()

	totals := session.ContractTotals(c)
	fmt.Fprintf(w, "\nSubtotal:    %s\n", export.FormatAmount(totals.Subtotal, currency))
	fmt.Fprintf(w, "Finishing:   %s\n", export.FormatAmount(totals.FinishingCost, currency))
	fmt.Fprintf(w, "Grand total: %s\n", export.FormatAmount(totals.GrandTotal, currency))
	fmt.Fprintf(w, "Remaining stone area: %s m²\n", export.FormatNumber(totals.RemainingStoneArea, 3))
}

func writeOutputs(c model.Contract, t exportTargets) error {
	if t.contract != "" {
		if err := project.SaveContract(t.contract, c); err != nil {
			return err
		}
		project.AddRecentContract(&appCfg, t.contract)
		if err := project.SaveAppConfig(configPath(), appCfg); err != nil {
			logging.Warn("failed to update recent contracts", zap.Error(err))
		}
	}
	report := export.NewReport(c, appCfg.Currency)
	if t.pdf != "" {
		if err := export.ExportCuttingSheet(t.pdf, report); err != nil {
			return err
		}
	}
	if t.xlsx != "" {
		if err := export.ExportXLSX(t.xlsx, report); err != nil {
			return err
		}
	}
	if t.labels != "" {
		if err := export.ExportLabels(t.labels, c.RemainingStones); err != nil {
			return err
		}
	}
	return nil
}
