package model

import (
	"time"

	"github.com/google/uuid"
)

// DraftTemplate is a reusable stair system: the drafts of its parts without
// any materialized line items.
type DraftTemplate struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Drafts      []StairPartDraft `json:"drafts"`
}

// NewDraftTemplate creates a new template from the given drafts.
// Product links are dropped so the template never edits existing line items.
func NewDraftTemplate(name, description string, drafts []StairPartDraft) DraftTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	cp := copyDrafts(drafts)
	for i := range cp {
		cp[i].ProductID = ""
		cp[i].StairSystemID = ""
	}
	return DraftTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Drafts:      cp,
	}
}

// ToDrafts returns fresh drafts for a new stair system.
func (t DraftTemplate) ToDrafts(stairSystemID string) []StairPartDraft {
	drafts := copyDrafts(t.Drafts)
	for i := range drafts {
		drafts[i].ProductID = ""
		drafts[i].StairSystemID = stairSystemID
	}
	return drafts
}

// TemplateStore holds a collection of draft templates.
type TemplateStore struct {
	Templates []DraftTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []DraftTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t DraftTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *DraftTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *DraftTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// copyDrafts copies the drafts slice including each draft's tool list.
func copyDrafts(drafts []StairPartDraft) []StairPartDraft {
	if drafts == nil {
		return []StairPartDraft{}
	}
	cp := make([]StairPartDraft, len(drafts))
	copy(cp, drafts)
	for i := range cp {
		if cp[i].Tools != nil {
			tools := make([]PartTool, len(cp[i].Tools))
			copy(tools, cp[i].Tools)
			cp[i].Tools = tools
		}
	}
	return cp
}
