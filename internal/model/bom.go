package model

// Calculator names a calculator family.
type Calculator string

const (
	CalculatorDeck   Calculator = "deck"
	CalculatorPaving Calculator = "paving"
	CalculatorWall   Calculator = "wall"
)

// BomRow is one purchasable line of a bill of materials.
type BomRow struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Note     string  `json:"note"`
	Material string  `json:"material,omitempty"` // catalog key, used for grand totals
}

// BomSection groups rows by trade.
type BomSection struct {
	Title       string   `json:"title"`
	AccentLabel string   `json:"accent_label"`
	Rows        []BomRow `json:"rows"`
}

// BomTotal is a material summed across every section it appears in.
type BomTotal struct {
	Material string  `json:"material"`
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Sections int     `json:"sections"` // number of sections contributing
}

// Stat is a labelled summary scalar (counts, lengths, areas).
type Stat struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// LayoutResult is the ordered set of member positions along one run.
type LayoutResult struct {
	Positions []float64 `json:"positions"` // mm from 0, ascending, unique
	Count     int       `json:"count"`
	Spacing   float64   `json:"spacing"`  // realised equal bay in the inner span (mm)
	Length    float64   `json:"length"`   // run length the positions cover (mm)
	Member    float64   `json:"member"`   // length of each member laid at these positions (mm)
}

// Noggin is a short cross member inside one bay of a primary layout.
type Noggin struct {
	Bay   int     `json:"bay"`
	From  float64 `json:"from"`  // bay start along the primary run (mm)
	To    float64 `json:"to"`    // bay end along the primary run (mm)
	Along float64 `json:"along"` // position along the member length (mm)
}

// Course is one row of repeating units (wall course or paving row).
type Course struct {
	Index     int     `json:"index"`
	Elevation float64 `json:"elevation"` // mm from the base (or row start)
	Offset    float64 `json:"offset"`    // stagger applied to the first unit (mm)
	Units     int     `json:"units"`     // whole or part units in the row
}

// BoardLayout describes the surface boards of a deck.
type BoardLayout struct {
	Direction string  `json:"direction"`
	Pitch     float64 `json:"pitch"`  // board width + gap (mm)
	Rows      int     `json:"rows"`   // raw board rows before waste
	Length    float64 `json:"length"` // board run length (mm)
}

// StructuralLayout is the discrete layout handed to the renderer. Only the
// members relevant to the calculator are set.
type StructuralLayout struct {
	Boards  *BoardLayout  `json:"boards,omitempty"`
	Joists  *LayoutResult `json:"joists,omitempty"`
	Beams   *LayoutResult `json:"beams,omitempty"`
	Posts   *LayoutResult `json:"posts,omitempty"` // along each beam
	Noggins []Noggin      `json:"noggins,omitempty"`
	Courses []Course      `json:"courses,omitempty"`

	// Horizontal reports whether primary members (joists, slab rows) are
	// positioned along the plan's length axis.
	Horizontal bool `json:"horizontal"`
}

// MixPart is one constituent of a resolved mix.
type MixPart struct {
	Material string  `json:"material"`
	Parts    float64 `json:"parts"`
	VolumeM3 float64 `json:"volume_m3"` // dry volume
}

// MixResult is a wet target volume split into dry constituent volumes.
type MixResult struct {
	Label       string    `json:"label"`
	Ratio       MixRatio  `json:"ratio"`
	WetVolumeM3 float64   `json:"wet_volume_m3"`
	DryVolumeM3 float64   `json:"dry_volume_m3"`
	Parts       []MixPart `json:"parts"`
}

// BomResult is the full output of one calculation.
type BomResult struct {
	Calculator Calculator       `json:"calculator"`
	Shape      ShapeKind        `json:"shape"`
	AreaM2     float64          `json:"area_m2"` // rounded to 2 dp
	PerimeterM float64          `json:"perimeter_m"`
	WastePct   float64          `json:"waste_pct"`
	Stats      []Stat           `json:"stats"`
	Sections   []BomSection     `json:"sections"`
	Totals     []BomTotal       `json:"totals"`
	Geometry   Geometry         `json:"geometry"`
	Layout     StructuralLayout `json:"layout"`
	Mixes      []MixResult      `json:"mixes"`
	Tier       TierDefaults     `json:"tier"`
	Locked     []string         `json:"locked"` // configuration field names locked by the tier
}

// Section returns the section with the given title, or nil.
func (r *BomResult) Section(title string) *BomSection {
	for i := range r.Sections {
		if r.Sections[i].Title == title {
			return &r.Sections[i]
		}
	}
	return nil
}

// Row returns the first row with the given item name, or nil.
func (s *BomSection) Row(item string) *BomRow {
	for i := range s.Rows {
		if s.Rows[i].Item == item {
			return &s.Rows[i]
		}
	}
	return nil
}

// Total returns the grand total for a material and unit, or nil.
func (r *BomResult) Total(material, unit string) *BomTotal {
	for i := range r.Totals {
		if r.Totals[i].Material == material && r.Totals[i].Unit == unit {
			return &r.Totals[i]
		}
	}
	return nil
}

// Stat returns the summary scalar with the given label.
func (r *BomResult) Stat(label string) (Stat, bool) {
	for _, s := range r.Stats {
		if s.Label == label {
			return s, true
		}
	}
	return Stat{}, false
}

// RowCount returns the number of rows across all sections.
func (r *BomResult) RowCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Rows)
	}
	return n
}
