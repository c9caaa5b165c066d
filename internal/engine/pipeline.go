package engine

import (
	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// fieldLock maps a generic tier field onto the configuration fields of one
// calculator that it controls.
type fieldLock struct {
	generic string
	fields  []string
}

// assembly describes one calculator to the shared pipeline. Each stage
// receives a private copy of the configuration, so stages may fill in
// derived values without touching the caller's input.
type assembly[C any] struct {
	calculator model.Calculator
	locks      []fieldLock

	common func(cfg *C) *model.Common
	height func(cfg *C) float64
	// applyTier writes tier-derived values into locked fields and fills
	// blank fields from the tier table.
	applyTier func(cfg *C, tier model.TierDefaults)
	shape     func(cfg *C) model.ShapeSpec
	layout    func(e *Engine, cfg *C, g model.Geometry, tier model.TierDefaults) model.StructuralLayout
	mixes     func(e *Engine, cfg *C, g model.Geometry, layout model.StructuralLayout) []model.MixResult
	// materials writes the BOM rows and returns the summary stats.
	materials func(e *Engine, cfg *C, g model.Geometry, layout model.StructuralLayout, mixes []model.MixResult, bom *BOM) []model.Stat
}

// lockedFields returns the configuration field names locked under tier.
func (a *assembly[C]) lockedFields(tier model.TierDefaults) []string {
	locked := []string{}
	for _, l := range a.locks {
		if tier.IsLocked(l.generic) {
			locked = append(locked, l.fields...)
		}
	}
	return locked
}

// tierFor resolves the tier defaults for a configuration.
func (a *assembly[C]) tierFor(cfg *C) model.TierDefaults {
	return ResolveTierDefaults(a.common(cfg).Tier, a.height(cfg))
}

// run executes tier -> defaults -> shape -> layout -> mix -> BOM. It returns
// nil when the shape is degenerate.
func run[C any](e *Engine, a *assembly[C], cfg C) *model.BomResult {
	tier := a.tierFor(&cfg)
	a.applyTier(&cfg, tier)

	g, ok := ResolveShape(a.shape(&cfg))
	if !ok {
		return nil
	}

	layout := a.layout(e, &cfg, g, tier)
	mixes := a.mixes(e, &cfg, g, layout)

	waste := a.common(&cfg).Waste()
	bom := NewBOM(&e.catalog, waste)
	stats := a.materials(e, &cfg, g, layout, mixes, bom)
	sections, totals := bom.Result()

	if mixes == nil {
		mixes = []model.MixResult{}
	}
	return &model.BomResult{
		Calculator: a.calculator,
		Shape:      g.Kind,
		AreaM2:     model.Round2(g.AreaM2),
		PerimeterM: model.Round2(g.PerimeterMM / 1000),
		WastePct:   waste,
		Stats:      stats,
		Sections:   sections,
		Totals:     totals,
		Geometry:   g,
		Layout:     layout,
		Mixes:      mixes,
		Tier:       tier,
		Locked:     a.lockedFields(tier),
	}
}

// fillBlank sets *n to def when it is zero or negative.
func fillBlank(n *model.Number, def float64) {
	if *n <= 0 {
		*n = model.Number(def)
	}
}
