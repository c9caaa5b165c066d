package engine

import (
	"testing"

	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pavingConfig(width, length float64) model.PavingConfig {
	cfg := model.DefaultPavingConfig()
	cfg.Width = model.Number(width)
	cfg.Length = model.Number(length)
	cfg.Tier = model.TierSpec{Skill: model.SkillPro, Budget: model.BudgetFull}
	cfg.SetWaste(10)
	return cfg
}

func TestPaving_SlabCountWithJoints(t *testing.T) {
	res := CalculatePaving(pavingConfig(6100, 3050))
	require.NotNil(t, res)

	slabs, ok := res.Stat("Slabs")
	require.True(t, ok)
	assert.Equal(t, 50.0, slabs.Value, "each slab covers 610 x 610 with its joints")
	assert.Equal(t, 55.0, res.Section("Paving").Row("Paving slab").Quantity)

	rows, _ := res.Stat("Rows")
	assert.Equal(t, 10.0, rows.Value)
	require.Len(t, res.Layout.Courses, 10)
	assert.Equal(t, 5, res.Layout.Courses[0].Units)
}

func TestPaving_MortarAndSubBase(t *testing.T) {
	res := CalculatePaving(pavingConfig(6100, 3050))
	require.NotNil(t, res)

	require.Len(t, res.Mixes, 1)
	mix := res.Mixes[0]
	assert.Equal(t, "1:4", mix.Ratio.String())
	// 18.605 m² x 40 mm bed + 50 slabs x 1200 mm x 10 mm x 22 mm of joints
	assert.InDelta(t, 0.7574, mix.WetVolumeM3, 1e-9)

	mortar := res.Section("Mortar")
	require.NotNil(t, mortar)
	cement := mortar.Row("Cement")
	require.NotNil(t, cement)
	assert.Equal(t, 15.0, cement.Quantity)
	assert.Equal(t, "25 kg bags", cement.Unit)
	sand := mortar.Row("Sharp sand")
	require.NotNil(t, sand)
	assert.Equal(t, "bulk bags", sand.Unit)
	assert.Equal(t, 2.0, sand.Quantity)

	subBase := res.Section("Sub-base")
	require.NotNil(t, subBase)
	mot := subBase.Row("MOT Type 1 sub-base")
	require.NotNil(t, mot)
	assert.Equal(t, 3.0, mot.Quantity)
	assert.Equal(t, "bulk bags", mot.Unit)
	assert.Nil(t, subBase.Row("Weed membrane"))
}

func TestPaving_SubBaseTypeFromCatalog(t *testing.T) {
	cfg := pavingConfig(6100, 3050)
	cfg.SubBaseType = "hardcore"

	res := CalculatePaving(cfg)
	require.NotNil(t, res)
	assert.NotNil(t, res.Section("Sub-base").Row("Hardcore"))
	assert.NotNil(t, res.Total(model.MaterialHardcore, "bulk bags"))
}

func TestPaving_EdgingAndMembrane(t *testing.T) {
	cfg := pavingConfig(6100, 3050)
	cfg.Edging = true
	cfg.Membrane = true

	res := CalculatePaving(cfg)
	require.NotNil(t, res)
	// 18.3 m of edge in 915 mm kerbs is exactly 20, plus waste
	assert.Equal(t, 22.0, res.Section("Paving").Row("Edging kerb").Quantity)
	assert.Equal(t, 21.0, res.Section("Sub-base").Row("Weed membrane").Quantity)
}

func TestPaving_DIYLocksMortarAndSubBase(t *testing.T) {
	cfg := pavingConfig(6100, 3050)
	cfg.Tier = model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetLow}
	cfg.MortarRatio = model.MixRatio{1, 3}
	cfg.SubBaseDepth = 200

	res := CalculatePaving(cfg)
	require.NotNil(t, res)
	assert.Equal(t, []string{"mortar_ratio", "sub_base_depth"}, res.Locked)
	assert.Equal(t, "1:6", res.Mixes[0].Ratio.String())
	subBase, _ := res.Stat("Sub-base")
	assert.InDelta(t, 1.8605, subBase.Value, 1e-3, "18.605 m² at 100 mm")
}

func TestPaving_ProKeepsUserRatio(t *testing.T) {
	cfg := pavingConfig(6100, 3050)
	cfg.MortarRatio = model.MixRatio{1, 3}

	res := CalculatePaving(cfg)
	require.NotNil(t, res)
	assert.Empty(t, res.Locked)
	assert.Equal(t, "1:3", res.Mixes[0].Ratio.String())

	cfg.MortarRatio = nil
	res = CalculatePaving(cfg)
	assert.Equal(t, "1:4", res.Mixes[0].Ratio.String(), "a blank ratio comes from the tier table")
}

func TestPaving_StretcherPattern(t *testing.T) {
	cfg := pavingConfig(6100, 3050)
	cfg.Pattern = model.PatternStretcher

	res := CalculatePaving(cfg)
	require.NotNil(t, res)
	require.Len(t, res.Layout.Courses, 10)
	assert.Zero(t, res.Layout.Courses[0].Offset)
	assert.Equal(t, 305.0, res.Layout.Courses[1].Offset)

	grid := CalculatePaving(pavingConfig(6100, 3050))
	assert.Equal(t, grid.Section("Paving").Row("Paving slab").Quantity,
		res.Section("Paving").Row("Paving slab").Quantity, "pattern does not change the slab count")
}

func TestPaving_Circle(t *testing.T) {
	cfg := pavingConfig(0, 0)
	cfg.Kind = model.ShapeCircle
	cfg.Radius = 2000

	res := CalculatePaving(cfg)
	require.NotNil(t, res)
	assert.Equal(t, 12.57, res.AreaM2)
	assert.Equal(t, model.ShapeCircle, res.Shape)
	assert.Equal(t, 12.57, res.PerimeterM)
}

func TestPaving_MissingDimension(t *testing.T) {
	assert.Nil(t, CalculatePaving(pavingConfig(6100, 0)))
}
