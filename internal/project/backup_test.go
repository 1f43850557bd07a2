package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/shopspring/decimal"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.Currency = "EUR"
	inv := model.DefaultInventory()

	if err := ExportAllData(path, cfg, inv, model.NewTemplateStore()); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.Currency != "EUR" {
		t.Errorf("expected Currency=EUR, got %s", backup.Config.Currency)
	}
	if len(backup.Inventory.Stones) != len(inv.Stones) {
		t.Errorf("expected %d stones, got %d", len(inv.Stones), len(backup.Inventory.Stones))
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config": {}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestSaveAndLoadContract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts", "villa.json")

	c := model.NewContract("Villa")
	p := model.NewContractProduct(model.ProductStairPart)
	p.TotalPrice = decimal.NewFromInt(4500000)
	c.Products = append(c.Products, p)
	c.RemainingStones = append(c.RemainingStones, model.NewRemainingStone(p.ID, 10, 1.2, 5))

	if err := SaveContract(path, c); err != nil {
		t.Fatalf("SaveContract failed: %v", err)
	}

	loaded, err := LoadContract(path)
	if err != nil {
		t.Fatalf("LoadContract failed: %v", err)
	}
	if loaded.Name != "Villa" || loaded.ID != c.ID {
		t.Errorf("unexpected contract %s/%s", loaded.ID, loaded.Name)
	}
	if len(loaded.Products) != 1 || !loaded.Products[0].TotalPrice.Equal(decimal.NewFromInt(4500000)) {
		t.Errorf("line item did not survive the round trip: %+v", loaded.Products)
	}
	if len(loaded.RemainingStones) != 1 || loaded.RemainingStones[0].Quantity != 5 {
		t.Errorf("remaining stones did not survive the round trip: %+v", loaded.RemainingStones)
	}
}

func TestLoadContractInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(path, []byte(`{"contract": {"name": "x"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadContract(path); err == nil {
		t.Error("expected error for missing version")
	}
	if _, err := LoadContract(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
