package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// SaveCatalog writes the catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, catalog model.Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads the catalog from the specified JSON file. Built-in
// entries missing from the file are added. If the file does not exist, it
// returns the default catalog and saves it.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			catalog := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, catalog); saveErr != nil {
				return catalog, saveErr
			}
			return catalog, nil
		}
		return model.Catalog{}, err
	}
	var catalog model.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	catalog.MergeDefaults()
	return catalog, nil
}

// ImportCatalog imports a catalog from a user-specified JSON file, merging
// it into the existing catalog. Entries whose key already exists are
// skipped.
func ImportCatalog(path string, existing model.Catalog) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Catalog
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	for _, m := range imported.Materials {
		if m.Key != "" && existing.FindMaterial(m.Key) == nil {
			existing.Materials = append(existing.Materials, m)
		}
	}
	for _, w := range imported.WallTypes {
		if w.Key != "" && existing.FindWallType(w.Key) == nil {
			existing.WallTypes = append(existing.WallTypes, w)
		}
	}
	for _, s := range imported.SubBaseTypes {
		if s.Key != "" && existing.FindSubBase(s.Key) == nil {
			existing.SubBaseTypes = append(existing.SubBaseTypes, s)
		}
	}
	return existing, nil
}

// ExportMaterial exports a single material to a JSON file (for sharing).
func ExportMaterial(path string, material model.Material) error {
	data, err := json.MarshalIndent(material, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportMaterial imports a single material from a JSON file.
func ImportMaterial(path string) (model.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Material{}, err
	}

	var material model.Material
	if err := json.Unmarshal(data, &material); err != nil {
		return model.Material{}, err
	}
	if material.Key == "" {
		return model.Material{}, errors.New("imported material has no key")
	}
	if material.Density <= 0 {
		return model.Material{}, fmt.Errorf("imported material %q has no density", material.Key)
	}
	return material, nil
}
