package model

// Material is a loose material bought by weight.
type Material struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Density   float64 `json:"density"`     // kg/m³, loose dry
	BagKg     float64 `json:"bag_kg"`      // small bag size, 0 if not sold in bags
	BulkBagM3 float64 `json:"bulk_bag_m3"` // bulk bag volume, 0 if not sold in bulk
}

// WallType describes one walling unit and how much of it goes into a square
// metre of wall face.
type WallType struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`           // "blocks", "bricks", "sleepers"
	UnitsPerM2   float64 `json:"units_per_m2"`   // wall face coverage
	UnitLength   float64 `json:"unit_length"`    // mm incl. joint
	CourseHeight float64 `json:"course_height"`  // mm incl. joint
	Thickness    float64 `json:"thickness"`      // mm
	MortarPerM2  float64 `json:"mortar_per_m2"`  // wet m³ of mortar per m² of face, 0 = dry laid
	TiesPerM2    float64 `json:"ties_per_m2"`    // wall ties per m², 0 = none
	FixingsPerM2 float64 `json:"fixings_per_m2"` // screws/spikes per m² for dry laid units
}

// SubBaseType maps a sub-base name onto the material it is bought as.
type SubBaseType struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Material string `json:"material"`
}

// Catalog holds densities, packaging and unit coverage used by the engine.
type Catalog struct {
	Materials    []Material    `json:"materials"`
	WallTypes    []WallType    `json:"wall_types"`
	SubBaseTypes []SubBaseType `json:"sub_base_types"`
}

// Material keys used by the calculators.
const (
	MaterialCement          = "cement"
	MaterialSharpSand       = "sharp_sand"
	MaterialBuildingSand    = "building_sand"
	MaterialGravel          = "gravel"
	MaterialMOTType1        = "mot_type1"
	MaterialHardcore        = "hardcore"
	MaterialCrushedConcrete = "crushed_concrete"
)

// DefaultCatalog returns the built-in materials and wall types.
func DefaultCatalog() Catalog {
	return Catalog{
		Materials: []Material{
			{Key: MaterialCement, Name: "Cement", Density: 1440, BagKg: 25},
			{Key: MaterialSharpSand, Name: "Sharp sand", Density: 1600, BagKg: 25, BulkBagM3: 0.85},
			{Key: MaterialBuildingSand, Name: "Building sand", Density: 1600, BagKg: 25, BulkBagM3: 0.85},
			{Key: MaterialGravel, Name: "Gravel (20mm aggregate)", Density: 1800, BagKg: 25, BulkBagM3: 0.85},
			{Key: MaterialMOTType1, Name: "MOT Type 1 sub-base", Density: 2100, BagKg: 25, BulkBagM3: 0.85},
			{Key: MaterialHardcore, Name: "Hardcore", Density: 1900, BulkBagM3: 0.85},
			{Key: MaterialCrushedConcrete, Name: "Crushed concrete", Density: 1700, BagKg: 25, BulkBagM3: 0.85},
		},
		WallTypes: []WallType{
			{Key: "solid-flat", Name: "Solid concrete block 440x215x100", Unit: "blocks", UnitsPerM2: 10, UnitLength: 450, CourseHeight: 225, Thickness: 100, MortarPerM2: 0.015},
			{Key: "hollow", Name: "Hollow concrete block 440x215x215", Unit: "blocks", UnitsPerM2: 10, UnitLength: 450, CourseHeight: 225, Thickness: 215, MortarPerM2: 0.012},
			{Key: "brick-single", Name: "Brick, half-brick skin", Unit: "bricks", UnitsPerM2: 60, UnitLength: 225, CourseHeight: 75, Thickness: 102.5, MortarPerM2: 0.025},
			{Key: "brick-double", Name: "Brick, double skin with ties", Unit: "bricks", UnitsPerM2: 120, UnitLength: 225, CourseHeight: 75, Thickness: 215, MortarPerM2: 0.05, TiesPerM2: 4.4},
			{Key: "sleeper", Name: "Timber sleeper 2400x200x100", Unit: "sleepers", UnitsPerM2: 1 / (2.4 * 0.2), UnitLength: 2400, CourseHeight: 200, Thickness: 100, FixingsPerM2: 8},
		},
		SubBaseTypes: []SubBaseType{
			{Key: "mot_type1", Name: "MOT Type 1", Material: MaterialMOTType1},
			{Key: "hardcore", Name: "Hardcore", Material: MaterialHardcore},
			{Key: "crushed_concrete", Name: "Crushed concrete", Material: MaterialCrushedConcrete},
		},
	}
}

// FindMaterial returns a pointer to the material with the given key, or nil.
func (c *Catalog) FindMaterial(key string) *Material {
	for i := range c.Materials {
		if c.Materials[i].Key == key {
			return &c.Materials[i]
		}
	}
	return nil
}

// FindWallType returns a pointer to the wall type with the given key, or nil.
func (c *Catalog) FindWallType(key string) *WallType {
	for i := range c.WallTypes {
		if c.WallTypes[i].Key == key {
			return &c.WallTypes[i]
		}
	}
	return nil
}

// FindSubBase returns a pointer to the sub-base type with the given key, or nil.
func (c *Catalog) FindSubBase(key string) *SubBaseType {
	for i := range c.SubBaseTypes {
		if c.SubBaseTypes[i].Key == key {
			return &c.SubBaseTypes[i]
		}
	}
	return nil
}

// WallTypeNames returns the wall type keys in catalog order.
func (c *Catalog) WallTypeNames() []string {
	names := make([]string, len(c.WallTypes))
	for i, w := range c.WallTypes {
		names[i] = w.Key
	}
	return names
}

// MergeDefaults adds any built-in entries missing from c, keyed by Key.
// Saved catalogs from older versions gain new materials this way.
func (c *Catalog) MergeDefaults() {
	def := DefaultCatalog()
	for _, m := range def.Materials {
		if c.FindMaterial(m.Key) == nil {
			c.Materials = append(c.Materials, m)
		}
	}
	for _, w := range def.WallTypes {
		if c.FindWallType(w.Key) == nil {
			c.WallTypes = append(c.WallTypes, w)
		}
	}
	for _, s := range def.SubBaseTypes {
		if c.FindSubBase(s.Key) == nil {
			c.SubBaseTypes = append(c.SubBaseTypes, s)
		}
	}
}
