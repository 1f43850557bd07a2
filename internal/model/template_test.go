package model

import (
	"testing"
)

func sampleDrafts() []StairPartDraft {
	stone := NewStoneProduct("TRV-60", "Travertine", 60, 2, 2800000)
	tread := NewStairPartDraft("sys-1", PartTread, 20)
	tread.ProductID = "prod-1"
	tread.Stone = &stone
	tread.Length = Dimension{Value: 120, Unit: UnitCm}
	tread.Width = Dimension{Value: 30, Unit: UnitCm}
	tread.Quantity = 12
	tread.Tools = []PartTool{{ID: "t1", Name: "Bullnose", PricePerMeter: 350000, Edges: EdgeSet{Front: true}}}

	riser := NewStairPartDraft("sys-1", PartRiser, 20)
	riser.Stone = &stone
	riser.Length = Dimension{Value: 120, Unit: UnitCm}
	riser.Width = Dimension{Value: 17, Unit: UnitCm}
	riser.Quantity = 12
	return []StairPartDraft{tread, riser}
}

func TestNewDraftTemplate(t *testing.T) {
	tmpl := NewDraftTemplate("Straight run", "12 steps", sampleDrafts())

	if tmpl.Name != "Straight run" {
		t.Errorf("expected name 'Straight run', got %q", tmpl.Name)
	}
	if tmpl.ID == "" {
		t.Error("expected non-empty ID")
	}
	if tmpl.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if len(tmpl.Drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(tmpl.Drafts))
	}
	for i, d := range tmpl.Drafts {
		if d.ProductID != "" || d.StairSystemID != "" {
			t.Errorf("draft %d still linked to %q/%q", i, d.ProductID, d.StairSystemID)
		}
	}
}

func TestDraftTemplate_ToDrafts(t *testing.T) {
	tmpl := NewDraftTemplate("Test", "desc", sampleDrafts())
	drafts := tmpl.ToDrafts("sys-9")

	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	for _, d := range drafts {
		if d.StairSystemID != "sys-9" {
			t.Errorf("expected stair system sys-9, got %q", d.StairSystemID)
		}
	}

	// Modifying the drafts must not affect the template.
	drafts[0].Tools[0].PricePerMeter = 1
	if tmpl.Drafts[0].Tools[0].PricePerMeter != 350000 {
		t.Error("modifying drafts should not affect the template")
	}
}

func TestNewDraftTemplate_NilDrafts(t *testing.T) {
	tmpl := NewDraftTemplate("Empty", "", nil)
	if tmpl.Drafts == nil {
		t.Error("drafts should be an empty slice, not nil")
	}
}

func TestTemplateStore(t *testing.T) {
	store := NewTemplateStore()
	if len(store.Templates) != 0 {
		t.Fatalf("expected empty store, got %d", len(store.Templates))
	}

	a := NewDraftTemplate("A", "", sampleDrafts())
	b := NewDraftTemplate("B", "", nil)
	store.Add(a)
	store.Add(b)

	if names := store.Names(); len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("unexpected names %v", names)
	}
	if found := store.FindByID(a.ID); found == nil || found.Name != "A" {
		t.Error("FindByID should return template A")
	}
	if found := store.FindByName("B"); found == nil || found.ID != b.ID {
		t.Error("FindByName should return template B")
	}
	if store.FindByID("missing") != nil {
		t.Error("expected nil for unknown ID")
	}

	if !store.Remove(a.ID) {
		t.Error("expected Remove to succeed")
	}
	if store.Remove(a.ID) {
		t.Error("expected second Remove to fail")
	}
	if len(store.Templates) != 1 {
		t.Errorf("expected 1 template after removal, got %d", len(store.Templates))
	}
}
