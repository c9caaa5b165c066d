package model

import "strings"

// SkillTier selects between system-derived structure (DIY) and free
// editing (Pro).
type SkillTier string

const (
	SkillDIY SkillTier = "DIY"
	SkillPro SkillTier = "Pro"
)

// BudgetTier selects the row of the structural defaults table.
type BudgetTier string

const (
	BudgetLow  BudgetTier = "Budget"
	BudgetFull BudgetTier = "Full"
)

// TierSpec is the (skill, budget) pair a calculation runs under.
type TierSpec struct {
	Skill  SkillTier  `json:"skill" toml:"skill"`
	Budget BudgetTier `json:"budget" toml:"budget"`
}

// Normalize maps free-text tiers onto the known values. A blank skill is
// Pro and a blank budget is Full.
func (t TierSpec) Normalize() TierSpec {
	out := TierSpec{Skill: SkillPro, Budget: BudgetFull}
	if strings.EqualFold(strings.TrimSpace(string(t.Skill)), string(SkillDIY)) {
		out.Skill = SkillDIY
	}
	switch strings.ToLower(strings.TrimSpace(string(t.Budget))) {
	case "budget", "low", "basic":
		out.Budget = BudgetLow
	}
	return out
}

func (t TierSpec) String() string {
	n := t.Normalize()
	return string(n.Skill) + " " + string(n.Budget)
}

// Generic names of the fields the tier resolver can derive. Calculators map
// these onto their own configuration fields.
const (
	FieldMemberDepth     = "member_depth"
	FieldSpacing         = "spacing"
	FieldMortarRatio     = "mortar_ratio"
	FieldFoundationDepth = "foundation_depth"
	FieldDrainageDepth   = "drainage_depth"
	FieldSubBaseDepth    = "sub_base_depth"
	FieldPostSection     = "post_section"
	FieldBeamSpacing     = "beam_spacing"
	FieldPostSpacing     = "post_spacing"
)

// TierDefaults is the resolved rule set for one tier and height.
type TierDefaults struct {
	Tier            TierSpec `json:"tier"`
	MemberDepth     float64  `json:"member_depth"`     // mm
	SpacingCeiling  float64  `json:"spacing_ceiling"`  // mm, max member centres
	MortarRatio     MixRatio `json:"mortar_ratio"`     // cement:sand
	FoundationDepth float64  `json:"foundation_depth"` // mm
	DrainageDepth   float64  `json:"drainage_depth"`   // mm
	SubBaseDepth    float64  `json:"sub_base_depth"`   // mm
	PostSection     float64  `json:"post_section"`     // mm, square post side
	BeamCeiling     float64  `json:"beam_ceiling"`     // mm, max beam/post centres when derived
	Locked          []string `json:"locked"`           // generic field names, sorted
	Hints           []string `json:"hints"`
}

// IsLocked reports whether the generic field name is locked.
func (d TierDefaults) IsLocked(field string) bool {
	for _, f := range d.Locked {
		if f == field {
			return true
		}
	}
	return false
}
