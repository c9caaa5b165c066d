package model

import (
	"testing"
)

func TestNewCalculationTemplate(t *testing.T) {
	cfg := DefaultDeckConfig()
	cfg.Width = 4800
	cfg.Length = 3600

	tmpl, err := NewCalculationTemplate("Back garden", "raised deck", CalculatorDeck, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Name != "Back garden" {
		t.Errorf("expected name 'Back garden', got %q", tmpl.Name)
	}
	if len(tmpl.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", tmpl.ID)
	}
	if tmpl.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if tmpl.Calculator != CalculatorDeck {
		t.Errorf("expected deck calculator, got %s", tmpl.Calculator)
	}

	var back DeckConfig
	if err := tmpl.DecodeConfig(&back); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if back.Width != 4800 || back.Length != 3600 {
		t.Errorf("expected 4800x3600, got %vx%v", back.Width, back.Length)
	}
	if back.JoistSpacing != cfg.JoistSpacing {
		t.Errorf("expected joist spacing %v, got %v", cfg.JoistSpacing, back.JoistSpacing)
	}
}

func TestTemplateStore_AddRemove(t *testing.T) {
	store := NewTemplateStore()

	t1, _ := NewCalculationTemplate("Patio", "", CalculatorPaving, DefaultPavingConfig())
	t2, _ := NewCalculationTemplate("Retaining", "", CalculatorWall, DefaultWallConfig())
	store.Add(t1)
	store.Add(t2)

	if len(store.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(store.Templates))
	}
	if !store.Remove(t1.ID) {
		t.Error("expected Remove to return true for existing template")
	}
	if store.Remove("nonexistent") {
		t.Error("expected Remove to return false for unknown ID")
	}
	if len(store.Templates) != 1 {
		t.Errorf("expected 1 template after removal, got %d", len(store.Templates))
	}
}

func TestTemplateStore_Find(t *testing.T) {
	store := NewTemplateStore()
	t1, _ := NewCalculationTemplate("Patio", "", CalculatorPaving, DefaultPavingConfig())
	t2, _ := NewCalculationTemplate("Deck", "", CalculatorDeck, DefaultDeckConfig())
	store.Add(t1)
	store.Add(t2)

	if got := store.Find(t2.ID); got == nil || got.Name != "Deck" {
		t.Error("expected lookup by ID to find Deck")
	}
	if got := store.Find("Patio"); got == nil || got.ID != t1.ID {
		t.Error("expected lookup by name to find Patio")
	}
	if store.Find("missing") != nil {
		t.Error("expected nil for unknown reference")
	}

	paving := store.ForCalculator(CalculatorPaving)
	if len(paving) != 1 || paving[0].Name != "Patio" {
		t.Errorf("expected one paving template, got %v", paving)
	}

	names := store.Names()
	if len(names) != 2 || names[0] != "Patio" || names[1] != "Deck" {
		t.Errorf("unexpected names %v", names)
	}
}
