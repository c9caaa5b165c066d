package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTemplates reads a template store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadTemplates(path string) (model.TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewTemplateStore(), nil
		}
		return model.TemplateStore{}, err
	}
	var store model.TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.CalculationTemplate{}
	}
	return store, nil
}

// SaveTemplate adds t to the store at path, replacing a template of the
// same name for the same calculator.
func SaveTemplate(path string, t model.CalculationTemplate) error {
	store, err := LoadTemplates(path)
	if err != nil {
		return err
	}
	for _, existing := range store.ForCalculator(t.Calculator) {
		if existing.Name == t.Name {
			t.ID = existing.ID
			t.CreatedAt = existing.CreatedAt
			store.Remove(existing.ID)
			break
		}
	}
	store.Add(t)
	return SaveTemplates(path, store)
}
