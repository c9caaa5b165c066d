package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

const (
	minFoundationDepth = 150.0 // mm
	defaultWallType    = "solid-flat"
	foundationLabel    = "Foundation concrete"
)

var wallAssembly = assembly[model.WallConfig]{
	calculator: model.CalculatorWall,
	locks: []fieldLock{
		{generic: model.FieldMortarRatio, fields: []string{"mortar_ratio"}},
		{generic: model.FieldFoundationDepth, fields: []string{"foundation_depth"}},
		{generic: model.FieldDrainageDepth, fields: []string{"drainage_depth"}},
	},
	common:    func(c *model.WallConfig) *model.Common { return &c.Common },
	height:    func(c *model.WallConfig) float64 { return c.Height.Float() },
	applyTier: applyWallTier,
	shape:     func(c *model.WallConfig) model.ShapeSpec { return c.Shape() },
	layout:    wallLayout,
	mixes:     wallMixes,
	materials: wallMaterials,
}

func applyWallTier(c *model.WallConfig, t model.TierDefaults) {
	def := model.DefaultWallConfig()
	fillBlank(&c.FoundationWidth, def.FoundationWidth.Float())
	fillBlank(&c.CopingLength, def.CopingLength.Float())
	c.FoundationMix = c.FoundationMix.Or(def.FoundationMix)
	if c.WallType == "" {
		c.WallType = defaultWallType
	}

	if t.IsLocked(model.FieldMortarRatio) {
		c.MortarRatio = t.MortarRatio
	} else {
		c.MortarRatio = c.MortarRatio.Or(t.MortarRatio)
	}
	if t.IsLocked(model.FieldFoundationDepth) {
		c.FoundationDepth = model.Number(t.FoundationDepth)
	} else {
		fillBlank(&c.FoundationDepth, t.FoundationDepth)
	}
	if c.FoundationDepth < minFoundationDepth {
		c.FoundationDepth = minFoundationDepth
	}
	if t.IsLocked(model.FieldDrainageDepth) {
		c.DrainageDepth = model.Number(t.DrainageDepth)
	} else if c.DrainageDepth < 0 {
		c.DrainageDepth = 0
	}
}

// wallType returns the catalog entry for the configured type, falling back
// to solid blocks for unknown keys.
func (e *Engine) wallType(key string) model.WallType {
	if wt := e.catalog.FindWallType(key); wt != nil {
		return *wt
	}
	if wt := e.catalog.FindWallType(defaultWallType); wt != nil {
		return *wt
	}
	return model.DefaultCatalog().WallTypes[0]
}

// wallUnitSize returns the unit length and course height, preferring
// values set on the configuration.
func wallUnitSize(c *model.WallConfig, wt model.WallType) (unit, course float64) {
	return c.UnitLength.OrDefault(wt.UnitLength), c.CourseHeight.OrDefault(wt.CourseHeight)
}

func wallLayout(e *Engine, c *model.WallConfig, g model.Geometry, _ model.TierDefaults) model.StructuralLayout {
	wt := e.wallType(c.WallType)
	unit, course := wallUnitSize(c, wt)
	return model.StructuralLayout{
		Courses:    StaggeredCourses(g.Length, course, unit, g.Width),
		Horizontal: true,
	}
}

// wallVolumes returns the wet foundation concrete and the drainage gravel
// volumes (m³).
func wallVolumes(c *model.WallConfig) (foundation, drainage float64) {
	length := c.Length.Float()
	foundation = length * c.FoundationWidth.Float() * c.FoundationDepth.Float() / 1e9
	drainage = length * c.Height.Float() * c.DrainageDepth.Float() / 1e9
	return foundation, drainage
}

func wallMixes(e *Engine, c *model.WallConfig, g model.Geometry, _ model.StructuralLayout) []model.MixResult {
	wt := e.wallType(c.WallType)
	foundation, _ := wallVolumes(c)
	mixes := []model.MixResult{}
	if wt.MortarPerM2 > 0 {
		mixes = append(mixes, ResolveMix(mortarLabel, g.AreaM2*wt.MortarPerM2, c.MortarRatio, buildingMaterials, DefaultBulking))
	}
	mixes = append(mixes, ResolveMix(foundationLabel, foundation, c.FoundationMix, concreteMaterials, DefaultBulking))
	return mixes
}

func wallMaterials(e *Engine, c *model.WallConfig, g model.Geometry, layout model.StructuralLayout, mixes []model.MixResult, bom *BOM) []model.Stat {
	wt := e.wallType(c.WallType)
	unit, course := wallUnitSize(c, wt)
	units := g.AreaM2 * wt.UnitsPerM2

	walling := bom.Section("Walling", "Structure")
	walling.Count(wt.Name, units, wt.Unit, fmt.Sprintf("%.4g per m², %d courses", wt.UnitsPerM2, len(layout.Courses)))
	if c.Coping {
		walling.Count("Coping stone", c.Length.Float()/c.CopingLength.Float(), "stones",
			fmt.Sprintf("%.0f mm units", c.CopingLength.Float()))
	}

	mortar := bom.Section("Mortar", "Bedding")
	foundation := bom.Section("Foundation", "Groundwork")
	for _, mix := range mixes {
		if mix.Label == foundationLabel {
			foundation.MixBags(mix)
		} else {
			mortar.MixBags(mix)
		}
	}

	_, drainageVolume := wallVolumes(c)
	drainage := bom.Section("Drainage", "Groundwork")
	drainage.Bags(model.MaterialGravel, drainageVolume, fmt.Sprintf("%.0f mm behind the wall", c.DrainageDepth.Float()))
	if c.DrainagePipe {
		drainage.Measure("Perforated drainage pipe", c.Length.Float()/1000, "m", "at the base of the gravel")
	}

	hardware := bom.Section("Hardware", "Fixings")
	hardware.Exact("Wall tie", g.AreaM2*wt.TiesPerM2, "ties", fmt.Sprintf("%.1f per m²", wt.TiesPerM2))
	hardware.Exact("Timber screw", g.AreaM2*wt.FixingsPerM2, "screws", fmt.Sprintf("%.0f per m²", wt.FixingsPerM2))

	var mortarWet float64
	for _, mix := range mixes {
		if mix.Label != foundationLabel {
			mortarWet += mix.WetVolumeM3
		}
	}
	foundationVolume, _ := wallVolumes(c)
	return []model.Stat{
		{Label: "Wall area", Value: model.Round2(g.AreaM2), Unit: "m²"},
		{Label: "Units", Value: math.Round(units*100) / 100, Unit: wt.Unit},
		{Label: "Courses", Value: float64(len(layout.Courses)), Unit: "courses"},
		{Label: "Unit length", Value: unit, Unit: "mm"},
		{Label: "Course height", Value: course, Unit: "mm"},
		{Label: "Mortar", Value: math.Round(mortarWet*1000) / 1000, Unit: "m³"},
		{Label: "Foundation depth", Value: c.FoundationDepth.Float(), Unit: "mm"},
		{Label: "Foundation concrete", Value: math.Round(foundationVolume*1000) / 1000, Unit: "m³"},
		{Label: "Drainage gravel", Value: math.Round(drainageVolume*1000) / 1000, Unit: "m³"},
	}
}
