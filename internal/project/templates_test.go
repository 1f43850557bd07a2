package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/StoneQuote/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	stone := model.NewStoneProduct("TRV-60", "Travertine", 60, 2, 2800000)
	d := model.NewStairPartDraft("sys-1", model.PartTread, 20)
	d.Stone = &stone
	d.Quantity = 12

	store := model.NewTemplateStore()
	store.Add(model.NewDraftTemplate("Straight run", "12 treads", []model.StairPartDraft{d}))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	tmpl := loaded.Templates[0]
	if tmpl.Name != "Straight run" {
		t.Errorf("expected name 'Straight run', got %q", tmpl.Name)
	}
	if len(tmpl.Drafts) != 1 || tmpl.Drafts[0].Stone == nil || tmpl.Drafts[0].Stone.Code != "TRV-60" {
		t.Errorf("draft did not survive the round trip: %+v", tmpl.Drafts)
	}
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	store, err := LoadTemplates(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Templates == nil || len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %+v", store.Templates)
	}
}
