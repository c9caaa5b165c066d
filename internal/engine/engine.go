package engine

import (
	"fmt"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// Engine runs the quantity takeoff calculators against a material catalog.
// It holds no mutable state; calls are safe to repeat and to run
// concurrently.
type Engine struct {
	catalog model.Catalog
}

// New returns an engine using catalog. Materials and wall types missing
// from catalog are taken from the built-in defaults.
func New(catalog model.Catalog) *Engine {
	c := model.Catalog{
		Materials:    append([]model.Material(nil), catalog.Materials...),
		WallTypes:    append([]model.WallType(nil), catalog.WallTypes...),
		SubBaseTypes: append([]model.SubBaseType(nil), catalog.SubBaseTypes...),
	}
	c.MergeDefaults()
	return &Engine{catalog: c}
}

// Catalog returns a copy of the catalog the engine prices against.
func (e *Engine) Catalog() model.Catalog {
	return model.Catalog{
		Materials:    append([]model.Material(nil), e.catalog.Materials...),
		WallTypes:    append([]model.WallType(nil), e.catalog.WallTypes...),
		SubBaseTypes: append([]model.SubBaseType(nil), e.catalog.SubBaseTypes...),
	}
}

// Deck calculates a raised timber deck. It returns nil when the plan
// dimensions are missing.
func (e *Engine) Deck(cfg model.DeckConfig) *model.BomResult {
	return run(e, &deckAssembly, cfg)
}

// Paving calculates a slab patio. It returns nil when the plan dimensions
// are missing.
func (e *Engine) Paving(cfg model.PavingConfig) *model.BomResult {
	return run(e, &pavingAssembly, cfg)
}

// Wall calculates a retaining wall. It returns nil when the wall length or
// height is missing.
func (e *Engine) Wall(cfg model.WallConfig) *model.BomResult {
	return run(e, &wallAssembly, cfg)
}

// Calculate runs the calculator matching the type of cfg, which may be a
// configuration value or a pointer to one. A nil result with a nil error
// means the configuration is still missing its dimensions.
func (e *Engine) Calculate(cfg any) (*model.BomResult, error) {
	switch c := cfg.(type) {
	case model.DeckConfig:
		return e.Deck(c), nil
	case *model.DeckConfig:
		return e.Deck(*c), nil
	case model.PavingConfig:
		return e.Paving(c), nil
	case *model.PavingConfig:
		return e.Paving(*c), nil
	case model.WallConfig:
		return e.Wall(c), nil
	case *model.WallConfig:
		return e.Wall(*c), nil
	}
	return nil, fmt.Errorf("no calculator for %T", cfg)
}

var defaultEngine = New(model.DefaultCatalog())

// CalculateDeck runs the deck calculator with the built-in catalog.
func CalculateDeck(cfg model.DeckConfig) *model.BomResult {
	return defaultEngine.Deck(cfg)
}

// CalculatePaving runs the paving calculator with the built-in catalog.
func CalculatePaving(cfg model.PavingConfig) *model.BomResult {
	return defaultEngine.Paving(cfg)
}

// CalculateWall runs the wall calculator with the built-in catalog.
func CalculateWall(cfg model.WallConfig) *model.BomResult {
	return defaultEngine.Wall(cfg)
}
