package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

func newDeckTemplate(t *testing.T, name string, width float64) model.CalculationTemplate {
	t.Helper()
	cfg := model.DefaultDeckConfig()
	cfg.Width = model.Number(width)
	cfg.Length = 3600
	tmpl, err := model.NewCalculationTemplate(name, "garden deck", model.CalculatorDeck, cfg)
	if err != nil {
		t.Fatalf("NewCalculationTemplate error: %v", err)
	}
	return tmpl
}

func TestSaveAndLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	store := model.NewTemplateStore()
	store.Add(newDeckTemplate(t, "Back garden", 4800))

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
	if loaded.Templates[0].Name != "Back garden" {
		t.Errorf("expected 'Back garden', got %q", loaded.Templates[0].Name)
	}

	var cfg model.DeckConfig
	if err := loaded.Templates[0].DecodeConfig(&cfg); err != nil {
		t.Fatalf("DecodeConfig error: %v", err)
	}
	if cfg.Width != 4800 || cfg.Length != 3600 {
		t.Errorf("expected 4800 x 3600, got %v x %v", cfg.Width, cfg.Length)
	}
}

func TestLoadTemplates_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")

	store, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %d templates", len(store.Templates))
	}
}

func TestSaveTemplate_ReplacesSameName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	first := newDeckTemplate(t, "Back garden", 4800)
	if err := SaveTemplate(path, first); err != nil {
		t.Fatalf("SaveTemplate error: %v", err)
	}
	if err := SaveTemplate(path, newDeckTemplate(t, "Side return", 2400)); err != nil {
		t.Fatalf("SaveTemplate error: %v", err)
	}
	if err := SaveTemplate(path, newDeckTemplate(t, "Back garden", 6000)); err != nil {
		t.Fatalf("SaveTemplate error: %v", err)
	}

	store, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(store.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(store.Templates))
	}

	saved := store.FindByName("Back garden")
	if saved == nil {
		t.Fatal("expected 'Back garden' to be kept")
	}
	if saved.ID != first.ID {
		t.Errorf("expected the replaced template to keep ID %s, got %s", first.ID, saved.ID)
	}
	var cfg model.DeckConfig
	if err := saved.DecodeConfig(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 6000 {
		t.Errorf("expected the newer config, got width %v", cfg.Width)
	}
}

func TestSaveTemplate_SameNameOtherCalculator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	if err := SaveTemplate(path, newDeckTemplate(t, "Back garden", 4800)); err != nil {
		t.Fatal(err)
	}
	wall, err := model.NewCalculationTemplate("Back garden", "", model.CalculatorWall, model.DefaultWallConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveTemplate(path, wall); err != nil {
		t.Fatal(err)
	}

	store, err := LoadTemplates(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(store.Templates) != 2 {
		t.Errorf("templates for different calculators should not replace each other, got %d", len(store.Templates))
	}
}
