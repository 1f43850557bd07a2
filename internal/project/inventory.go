package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/StoneQuote/internal/model"
)

// DefaultInventoryPath returns the default file path for the inventory file.
// This is located at ~/.stonequote/inventory.json.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stonequote", "inventory.json"), nil
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, err
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from path, or from the default
// path when path is empty. A missing file is created with default entries.
func LoadOrCreateInventory(path string) (model.Inventory, string, error) {
	if path == "" {
		var err error
		path, err = DefaultInventoryPath()
		if err != nil {
			return model.DefaultInventory(), "", err
		}
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory imports an inventory from a user-specified JSON file,
// merging it with the existing inventory.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}
	return MergeInventory(existing, imported), nil
}

// MergeInventory adds the imported entries to existing. Stones, tools and
// finishings with a known ID are skipped. Cutting types are keyed by code
// and the imported price wins.
func MergeInventory(existing, imported model.Inventory) model.Inventory {
	stoneIDs := make(map[string]bool, len(existing.Stones))
	for _, s := range existing.Stones {
		stoneIDs[s.ID] = true
	}
	toolIDs := make(map[string]bool, len(existing.Tools))
	for _, t := range existing.Tools {
		toolIDs[t.ID] = true
	}
	finishingIDs := make(map[string]bool, len(existing.Finishings))
	for _, f := range existing.Finishings {
		finishingIDs[f.ID] = true
	}

	for _, s := range imported.Stones {
		if !stoneIDs[s.ID] {
			existing.Stones = append(existing.Stones, s)
			stoneIDs[s.ID] = true
		}
	}
	for _, t := range imported.Tools {
		if !toolIDs[t.ID] {
			existing.Tools = append(existing.Tools, t)
			toolIDs[t.ID] = true
		}
	}
	for _, f := range imported.Finishings {
		if !finishingIDs[f.ID] {
			existing.Finishings = append(existing.Finishings, f)
			finishingIDs[f.ID] = true
		}
	}

	for _, c := range imported.CuttingTypes {
		replaced := false
		for i := range existing.CuttingTypes {
			if strings.EqualFold(existing.CuttingTypes[i].Code, c.Code) {
				existing.CuttingTypes[i].PricePerMeter = c.PricePerMeter
				replaced = true
				break
			}
		}
		if !replaced {
			existing.CuttingTypes = append(existing.CuttingTypes, c)
		}
	}
	return existing
}
