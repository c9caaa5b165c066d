package model

import (
	"fmt"
	"strings"
)

// DefaultWastePct is applied when a configuration does not set a waste allowance.
const DefaultWastePct = 10.0

// Common holds the fields every calculator configuration shares.
type Common struct {
	Tier     TierSpec `json:"tier" toml:"tier"`
	WastePct *Number  `json:"waste_pct,omitempty" toml:"waste_pct"` // nil means DefaultWastePct
}

// Waste returns the waste allowance in percent, never negative.
func (c Common) Waste() float64 {
	if c.WastePct == nil {
		return DefaultWastePct
	}
	if *c.WastePct < 0 {
		return 0
	}
	return float64(*c.WastePct)
}

// SetWaste sets an explicit waste allowance.
func (c *Common) SetWaste(pct float64) {
	n := Number(pct)
	c.WastePct = &n
}

// BoardDirection is the direction deck boards run in plan.
type BoardDirection string

const (
	BoardsHorizontal BoardDirection = "horizontal" // boards run along the length
	BoardsVertical   BoardDirection = "vertical"   // boards run along the width
	BoardsDiagonal   BoardDirection = "diagonal"   // boards run at 45 degrees
)

// Normalize returns a known direction, defaulting to horizontal.
func (d BoardDirection) Normalize() BoardDirection {
	switch strings.ToLower(strings.TrimSpace(string(d))) {
	case "vertical", "v":
		return BoardsVertical
	case "diagonal", "d", "45":
		return BoardsDiagonal
	default:
		return BoardsHorizontal
	}
}

// DeckConfig is the input to the deck calculator. Dimensions are mm.
type DeckConfig struct {
	ShapeSpec
	Common

	Height    Number         `json:"height" toml:"height"` // finished deck height above ground
	Direction BoardDirection `json:"board_direction" toml:"board_direction"`

	BoardWidth     Number `json:"board_width" toml:"board_width"`
	BoardThickness Number `json:"board_thickness" toml:"board_thickness"`
	BoardGap       Number `json:"board_gap" toml:"board_gap"`
	BoardLength    Number `json:"board_length" toml:"board_length"` // stock length, 0 = cut to run
	BorderBoard    Flag   `json:"border_board" toml:"border_board"`

	JoistDepth     Number `json:"joist_depth" toml:"joist_depth"`
	JoistThickness Number `json:"joist_thickness" toml:"joist_thickness"`
	JoistSpacing   Number `json:"joist_spacing" toml:"joist_spacing"`

	BeamDepth     Number `json:"beam_depth" toml:"beam_depth"`
	BeamThickness Number `json:"beam_thickness" toml:"beam_thickness"`
	BeamSpacing   Number `json:"beam_spacing" toml:"beam_spacing"`

	PostSection   Number `json:"post_section" toml:"post_section"`
	PostSpacing   Number `json:"post_spacing" toml:"post_spacing"`
	PostHoleSize  Number `json:"post_hole_size" toml:"post_hole_size"`
	PostHoleDepth Number `json:"post_hole_depth" toml:"post_hole_depth"`

	NogginSpacing Number `json:"noggin_spacing" toml:"noggin_spacing"`
}

// DefaultDeckConfig returns a deck configuration with typical softwood
// decking dimensions and no plan dimensions.
func DefaultDeckConfig() DeckConfig {
	return DeckConfig{
		ShapeSpec:      ShapeSpec{Kind: ShapeRectangle},
		Height:         300,
		Direction:      BoardsHorizontal,
		BoardWidth:     144,
		BoardThickness: 28,
		BoardGap:       5,
		JoistDepth:     150,
		JoistThickness: 47,
		JoistSpacing:   400,
		BeamDepth:      150,
		BeamThickness:  47,
		BeamSpacing:    1800,
		PostSection:    100,
		PostSpacing:    1800,
		PostHoleSize:   300,
		PostHoleDepth:  600,
		NogginSpacing:  1200,
	}
}

// PavingPattern is the slab laying pattern.
type PavingPattern string

const (
	PatternGrid      PavingPattern = "grid"
	PatternStretcher PavingPattern = "stretcher" // alternate rows offset by half a slab
)

// Normalize returns a known pattern, defaulting to grid.
func (p PavingPattern) Normalize() PavingPattern {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "stretcher", "running", "running_bond", "brick":
		return PatternStretcher
	default:
		return PatternGrid
	}
}

// PavingConfig is the input to the paving calculator. Dimensions are mm.
type PavingConfig struct {
	ShapeSpec
	Common

	SlabLength    Number        `json:"slab_length" toml:"slab_length"`
	SlabWidth     Number        `json:"slab_width" toml:"slab_width"`
	SlabThickness Number        `json:"slab_thickness" toml:"slab_thickness"`
	JointWidth    Number        `json:"joint_width" toml:"joint_width"`
	Pattern       PavingPattern `json:"pattern" toml:"pattern"`

	BedDepth    Number   `json:"bed_depth" toml:"bed_depth"`
	MortarRatio MixRatio `json:"mortar_ratio" toml:"mortar_ratio"`

	SubBaseDepth Number `json:"sub_base_depth" toml:"sub_base_depth"`
	SubBaseType  string `json:"sub_base_type" toml:"sub_base_type"`

	Edging       Flag   `json:"edging" toml:"edging"`
	EdgingLength Number `json:"edging_length" toml:"edging_length"`
	Membrane     Flag   `json:"membrane" toml:"membrane"`
}

// DefaultPavingConfig returns a paving configuration for 600x600 slabs on a
// full mortar bed.
func DefaultPavingConfig() PavingConfig {
	return PavingConfig{
		ShapeSpec:     ShapeSpec{Kind: ShapeRectangle},
		SlabLength:    600,
		SlabWidth:     600,
		SlabThickness: 22,
		JointWidth:    10,
		Pattern:       PatternGrid,
		BedDepth:      40,
		MortarRatio:   MixRatio{1, 4},
		SubBaseDepth:  100,
		SubBaseType:   "mot_type1",
		EdgingLength:  915,
	}
}

// WallConfig is the input to the retaining wall calculator. The wall face
// is a Length x Height rectangle. Dimensions are mm.
type WallConfig struct {
	Common

	Length   Number `json:"length" toml:"length"`
	Height   Number `json:"height" toml:"height"`
	WallType string `json:"wall_type" toml:"wall_type"`

	UnitLength   Number   `json:"unit_length" toml:"unit_length"`     // block/brick length incl. joint
	CourseHeight Number   `json:"course_height" toml:"course_height"` // unit height incl. joint
	MortarRatio  MixRatio `json:"mortar_ratio" toml:"mortar_ratio"`

	FoundationDepth Number   `json:"foundation_depth" toml:"foundation_depth"`
	FoundationWidth Number   `json:"foundation_width" toml:"foundation_width"`
	FoundationMix   MixRatio `json:"foundation_mix" toml:"foundation_mix"`

	DrainageDepth Number `json:"drainage_depth" toml:"drainage_depth"` // gravel layer thickness behind the wall
	DrainagePipe  Flag   `json:"drainage_pipe" toml:"drainage_pipe"`

	Coping       Flag   `json:"coping" toml:"coping"`
	CopingLength Number `json:"coping_length" toml:"coping_length"`
}

// DefaultWallConfig returns a solid block wall configuration with no
// dimensions.
func DefaultWallConfig() WallConfig {
	return WallConfig{
		WallType:        "solid-flat",
		MortarRatio:     MixRatio{1, 4},
		FoundationDepth: 225,
		FoundationWidth: 450,
		FoundationMix:   MixRatio{1, 2, 4},
		DrainageDepth:   300,
		CopingLength:    600,
	}
}

// Shape returns the wall face as a rectangle (width = length along the
// ground, length = height).
func (w WallConfig) Shape() ShapeSpec {
	return ShapeSpec{Kind: ShapeRectangle, Width: w.Length, Length: w.Height}
}

// ParseCalculator maps a calculator name onto a Calculator.
func ParseCalculator(name string) (Calculator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deck", "decking":
		return CalculatorDeck, nil
	case "paving", "patio":
		return CalculatorPaving, nil
	case "wall", "retaining_wall", "retaining-wall":
		return CalculatorWall, nil
	}
	return "", fmt.Errorf("unknown calculator %q", name)
}

// NewConfig returns a pointer to the default configuration of calc.
func NewConfig(calc Calculator) (any, error) {
	switch calc {
	case CalculatorDeck:
		c := DefaultDeckConfig()
		return &c, nil
	case CalculatorPaving:
		c := DefaultPavingConfig()
		return &c, nil
	case CalculatorWall:
		c := DefaultWallConfig()
		return &c, nil
	}
	return nil, fmt.Errorf("unknown calculator %q", calc)
}

// CommonOf returns the shared fields of a configuration pointer, or nil
// when cfg is not a calculator configuration.
func CommonOf(cfg any) *Common {
	switch c := cfg.(type) {
	case *DeckConfig:
		return &c.Common
	case *PavingConfig:
		return &c.Common
	case *WallConfig:
		return &c.Common
	}
	return nil
}

// ShapeOf returns the plan shape of a configuration pointer, or nil when
// the calculator has no plan shape.
func ShapeOf(cfg any) *ShapeSpec {
	switch c := cfg.(type) {
	case *DeckConfig:
		return &c.ShapeSpec
	case *PavingConfig:
		return &c.ShapeSpec
	}
	return nil
}
