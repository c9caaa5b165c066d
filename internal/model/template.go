package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CalculationTemplate is a saved calculator input that can be re-run later.
// Config holds the calculator configuration exactly as it was saved.
type CalculationTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Calculator  Calculator      `json:"calculator"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	Config      json.RawMessage `json:"config"`
}

// NewCalculationTemplate snapshots a calculator configuration.
func NewCalculationTemplate(name, description string, calc Calculator, config any) (CalculationTemplate, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return CalculationTemplate{}, fmt.Errorf("failed to marshal %s config: %w", calc, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return CalculationTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		Calculator:  calc,
		CreatedAt:   now,
		UpdatedAt:   now,
		Config:      data,
	}, nil
}

// DecodeConfig unmarshals the saved configuration into target.
func (t CalculationTemplate) DecodeConfig(target any) error {
	if err := json.Unmarshal(t.Config, target); err != nil {
		return fmt.Errorf("failed to decode template %s: %w", t.ID, err)
	}
	return nil
}

// TemplateStore holds a collection of calculation templates.
type TemplateStore struct {
	Templates []CalculationTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []CalculationTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t CalculationTemplate) {
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
func (ts *TemplateStore) FindByID(id string) *CalculationTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *CalculationTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Find looks a template up by ID first, then by name.
func (ts *TemplateStore) Find(ref string) *CalculationTemplate {
	if t := ts.FindByID(ref); t != nil {
		return t
	}
	return ts.FindByName(ref)
}

// Names returns a list of template names.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// ForCalculator returns the templates saved for one calculator.
func (ts *TemplateStore) ForCalculator(calc Calculator) []CalculationTemplate {
	var out []CalculationTemplate
	for _, t := range ts.Templates {
		if t.Calculator == calc {
			out = append(out, t)
		}
	}
	return out
}
