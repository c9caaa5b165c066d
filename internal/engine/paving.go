package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

const mortarLabel = "Mortar"

var pavingAssembly = assembly[model.PavingConfig]{
	calculator: model.CalculatorPaving,
	locks: []fieldLock{
		{generic: model.FieldMortarRatio, fields: []string{"mortar_ratio"}},
		{generic: model.FieldSubBaseDepth, fields: []string{"sub_base_depth"}},
	},
	common:    func(c *model.PavingConfig) *model.Common { return &c.Common },
	height:    func(*model.PavingConfig) float64 { return 0 },
	applyTier: applyPavingTier,
	shape:     func(c *model.PavingConfig) model.ShapeSpec { return c.ShapeSpec },
	layout:    pavingLayout,
	mixes:     pavingMixes,
	materials: pavingMaterials,
}

func applyPavingTier(c *model.PavingConfig, t model.TierDefaults) {
	def := model.DefaultPavingConfig()
	fillBlank(&c.SlabLength, def.SlabLength.Float())
	fillBlank(&c.SlabWidth, def.SlabWidth.Float())
	fillBlank(&c.SlabThickness, def.SlabThickness.Float())
	fillBlank(&c.EdgingLength, def.EdgingLength.Float())
	if c.JointWidth < 0 {
		c.JointWidth = 0
	}
	if c.BedDepth < 0 {
		c.BedDepth = 0
	}
	if c.SubBaseType == "" {
		c.SubBaseType = def.SubBaseType
	}

	if t.IsLocked(model.FieldMortarRatio) {
		c.MortarRatio = t.MortarRatio
	} else {
		c.MortarRatio = c.MortarRatio.Or(t.MortarRatio)
	}
	if t.IsLocked(model.FieldSubBaseDepth) {
		c.SubBaseDepth = model.Number(t.SubBaseDepth)
	} else {
		fillBlank(&c.SubBaseDepth, t.SubBaseDepth)
	}
}

// slabModule returns the plan area one slab and its share of joints cover.
func slabModule(c *model.PavingConfig) float64 {
	joint := c.JointWidth.Float()
	return (c.SlabLength.Float() + joint) * (c.SlabWidth.Float() + joint)
}

func rawSlabs(c *model.PavingConfig, g model.Geometry) float64 {
	return g.AreaMM2 / slabModule(c)
}

// pavingLayout lays slab rows across the span, each row running along the
// plan's run.
func pavingLayout(_ *Engine, c *model.PavingConfig, g model.Geometry, _ model.TierDefaults) model.StructuralLayout {
	joint := c.JointWidth.Float()
	rowHeight := c.SlabWidth.Float() + joint
	unit := c.SlabLength.Float() + joint
	var rows []model.Course
	if c.Pattern.Normalize() == model.PatternStretcher {
		rows = StaggeredCourses(g.Span, rowHeight, unit, g.Run)
	} else {
		rows = GridCourses(g.Span, rowHeight, unit, g.Run)
	}
	return model.StructuralLayout{Courses: rows, Horizontal: true}
}

// pavingVolumes returns the wet bedding and jointing mortar volumes (m³).
func pavingVolumes(c *model.PavingConfig, g model.Geometry) (bed, joints float64) {
	bed = g.AreaMM2 * c.BedDepth.Float() / 1e9
	joints = rawSlabs(c, g) * (c.SlabLength.Float() + c.SlabWidth.Float()) *
		c.JointWidth.Float() * c.SlabThickness.Float() / 1e9
	return bed, joints
}

func pavingMixes(_ *Engine, c *model.PavingConfig, g model.Geometry, _ model.StructuralLayout) []model.MixResult {
	bed, joints := pavingVolumes(c, g)
	return []model.MixResult{
		ResolveMix(mortarLabel, bed+joints, c.MortarRatio, mortarMaterials, DefaultBulking),
	}
}

func pavingMaterials(e *Engine, c *model.PavingConfig, g model.Geometry, layout model.StructuralLayout, mixes []model.MixResult, bom *BOM) []model.Stat {
	slabs := rawSlabs(c, g)

	paving := bom.Section("Paving", "Surface")
	paving.Count("Paving slab", slabs, "slabs",
		fmt.Sprintf("%.0f x %.0f x %.0f mm, %s pattern", c.SlabLength.Float(), c.SlabWidth.Float(), c.SlabThickness.Float(), c.Pattern.Normalize()))
	if c.Edging {
		paving.Count("Edging kerb", g.PerimeterMM/c.EdgingLength.Float(), "kerbs",
			fmt.Sprintf("%.1f m of edge, %.0f mm units", g.PerimeterMM/1000, c.EdgingLength.Float()))
	}

	mortar := bom.Section("Mortar", "Bedding")
	for _, mix := range mixes {
		mortar.MixBags(mix)
	}

	subBase := bom.Section("Sub-base", "Groundwork")
	subBaseVolume := g.AreaMM2 * c.SubBaseDepth.Float() / 1e9
	material := model.MaterialMOTType1
	if sb := e.catalog.FindSubBase(c.SubBaseType); sb != nil {
		material = sb.Material
	}
	subBase.Bags(material, subBaseVolume, fmt.Sprintf("%.0f mm compacted", c.SubBaseDepth.Float()))
	if c.Membrane {
		subBase.Measure("Weed membrane", g.AreaM2, "m²", "under the sub-base")
	}

	bed, joints := pavingVolumes(c, g)
	return []model.Stat{
		{Label: "Area", Value: model.Round2(g.AreaM2), Unit: "m²"},
		{Label: "Perimeter", Value: model.Round2(g.PerimeterMM / 1000), Unit: "m"},
		{Label: "Slabs", Value: math.Round(slabs*100) / 100, Unit: "slabs"},
		{Label: "Rows", Value: float64(len(layout.Courses)), Unit: "rows"},
		{Label: "Bedding mortar", Value: math.Round(bed*1000) / 1000, Unit: "m³"},
		{Label: "Joint mortar", Value: math.Round(joints*1000) / 1000, Unit: "m³"},
		{Label: "Sub-base", Value: math.Round(subBaseVolume*1000) / 1000, Unit: "m³"},
	}
}
