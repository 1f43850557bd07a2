package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/StoneQuote/internal/model"
)

// backupVersion is written into every backup and contract file.
const backupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Config    model.AppConfig     `json:"config"`
	Inventory model.Inventory     `json:"inventory"`
	Templates model.TemplateStore `json:"templates"`
}

// ExportAllData exports config, inventory and templates to a single JSON file.
func ExportAllData(exportPath string, config model.AppConfig, inv model.Inventory, templates model.TemplateStore) error {
	backup := BackupData{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Inventory: inv,
		Templates: templates,
	}
	return writeJSON(exportPath, backup, "backup")
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentContracts == nil {
		backup.Config.RecentContracts = []string{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.DraftTemplate{}
	}
	return backup, nil
}

// ContractFile is the on-disk form of a saved quote.
type ContractFile struct {
	Version  string         `json:"version"`
	SavedAt  string         `json:"saved_at"`
	Contract model.Contract `json:"contract"`
}

// SaveContract writes a contract with its line items and remaining stones.
func SaveContract(path string, c model.Contract) error {
	return writeJSON(path, ContractFile{
		Version:  backupVersion,
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
		Contract: c,
	}, "contract")
}

// LoadContract reads a contract saved with SaveContract.
func LoadContract(path string) (model.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Contract{}, fmt.Errorf("failed to read contract file: %w", err)
	}
	var f ContractFile
	if err := json.Unmarshal(data, &f); err != nil {
		return model.Contract{}, fmt.Errorf("failed to parse contract file: %w", err)
	}
	if f.Version == "" {
		return model.Contract{}, fmt.Errorf("invalid contract file: missing version field")
	}
	c := f.Contract
	if c.Products == nil {
		c.Products = []model.ContractProduct{}
	}
	if c.RemainingStones == nil {
		c.RemainingStones = []model.RemainingStone{}
	}
	return c, nil
}

func writeJSON(path string, v interface{}, what string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s data: %w", what, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", what, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", what, err)
	}
	return nil
}
