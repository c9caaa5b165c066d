package engine

import (
	"fmt"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

const (
	// BeamSpacingCeiling is the widest derived beam or post spacing (mm).
	BeamSpacingCeiling = 1800.0

	postHeightThreshold = 500.0
	postSectionTall     = 100.0
	postSectionShort    = 75.0
)

// tierRow is one budget row of the structural defaults table.
type tierRow struct {
	memberDepth     float64
	spacingCeiling  float64
	mortarRatio     model.MixRatio
	foundationDepth float64
	drainageDepth   float64
	subBaseDepth    float64
}

func rowFor(budget model.BudgetTier) tierRow {
	if budget == model.BudgetLow {
		return tierRow{
			memberDepth:     100,
			spacingCeiling:  600,
			mortarRatio:     model.MixRatio{1, 6},
			foundationDepth: 150,
			drainageDepth:   150,
			subBaseDepth:    100,
		}
	}
	return tierRow{
		memberDepth:     150,
		spacingCeiling:  400,
		mortarRatio:     model.MixRatio{1, 4},
		foundationDepth: 225,
		drainageDepth:   300,
		subBaseDepth:    150,
	}
}

// PostSection returns the square post size for a deck of the given height.
// Taller decks get the heavier section regardless of tier.
func PostSection(height float64) float64 {
	if height > postHeightThreshold {
		return postSectionTall
	}
	return postSectionShort
}

// ResolveTierDefaults resolves the structural defaults for a tier and the
// primary height of the structure. Under DIY every derived field is locked
// and a hint describing the applied rule is returned for each. Under Pro
// nothing is locked; the values only fill fields the user left blank.
func ResolveTierDefaults(tier model.TierSpec, height float64) model.TierDefaults {
	t := tier.Normalize()
	row := rowFor(t.Budget)
	d := model.TierDefaults{
		Tier:            t,
		MemberDepth:     row.memberDepth,
		SpacingCeiling:  row.spacingCeiling,
		MortarRatio:     append(model.MixRatio(nil), row.mortarRatio...),
		FoundationDepth: row.foundationDepth,
		DrainageDepth:   row.drainageDepth,
		SubBaseDepth:    row.subBaseDepth,
		PostSection:     PostSection(height),
		BeamCeiling:     BeamSpacingCeiling,
		Locked:          []string{},
		Hints:           []string{},
	}
	if t.Skill != model.SkillDIY {
		return d
	}

	d.Locked = []string{
		model.FieldBeamSpacing,
		model.FieldDrainageDepth,
		model.FieldFoundationDepth,
		model.FieldMemberDepth,
		model.FieldMortarRatio,
		model.FieldPostSection,
		model.FieldPostSpacing,
		model.FieldSpacing,
		model.FieldSubBaseDepth,
	}
	d.Hints = []string{
		fmt.Sprintf("%s: members %.0f mm deep", t, d.MemberDepth),
		fmt.Sprintf("%s: members at most %.0f mm apart", t, d.SpacingCeiling),
		fmt.Sprintf("%s: mortar %s", t, d.MortarRatio),
		fmt.Sprintf("%s: foundation %.0f mm, drainage %.0f mm, sub-base %.0f mm", t, d.FoundationDepth, d.DrainageDepth, d.SubBaseDepth),
		fmt.Sprintf("beams and posts in equal bays of at most %.0f mm", d.BeamCeiling),
		postSectionHint(height, d.PostSection),
	}
	return d
}

func postSectionHint(height, section float64) string {
	if height > postHeightThreshold {
		return fmt.Sprintf("height %.0f mm is over %.0f mm: %.0f mm posts", height, postHeightThreshold, section)
	}
	return fmt.Sprintf("height %.0f mm is %.0f mm or less: %.0f mm posts", height, postHeightThreshold, section)
}
