package engine

import (
	"testing"

	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestResolveTierDefaults_Table(t *testing.T) {
	cases := []struct {
		tier                                   model.TierSpec
		depth, spacing, foundation, drain, sub float64
		mortar                                 string
	}{
		{model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetLow}, 100, 600, 150, 150, 100, "1:6"},
		{model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetFull}, 150, 400, 225, 300, 150, "1:4"},
		{model.TierSpec{Skill: model.SkillPro, Budget: model.BudgetLow}, 100, 600, 150, 150, 100, "1:6"},
		{model.TierSpec{Skill: model.SkillPro, Budget: model.BudgetFull}, 150, 400, 225, 300, 150, "1:4"},
	}
	for _, tc := range cases {
		d := ResolveTierDefaults(tc.tier, 300)
		assert.Equal(t, tc.depth, d.MemberDepth, tc.tier.String())
		assert.Equal(t, tc.spacing, d.SpacingCeiling, tc.tier.String())
		assert.Equal(t, tc.foundation, d.FoundationDepth, tc.tier.String())
		assert.Equal(t, tc.drain, d.DrainageDepth, tc.tier.String())
		assert.Equal(t, tc.sub, d.SubBaseDepth, tc.tier.String())
		assert.Equal(t, tc.mortar, d.MortarRatio.String(), tc.tier.String())
		assert.Equal(t, BeamSpacingCeiling, d.BeamCeiling)
	}
}

func TestResolveTierDefaults_DIYLocksDerivedFields(t *testing.T) {
	d := ResolveTierDefaults(model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetLow}, 300)
	for _, f := range []string{
		model.FieldMemberDepth, model.FieldSpacing, model.FieldMortarRatio,
		model.FieldFoundationDepth, model.FieldDrainageDepth, model.FieldSubBaseDepth,
		model.FieldPostSection, model.FieldBeamSpacing, model.FieldPostSpacing,
	} {
		assert.True(t, d.IsLocked(f), f)
	}
	assert.IsNonDecreasing(t, d.Locked)
	assert.NotEmpty(t, d.Hints)
	assert.Contains(t, d.Hints[0], "DIY Budget")
}

func TestResolveTierDefaults_ProLocksNothing(t *testing.T) {
	d := ResolveTierDefaults(model.TierSpec{Skill: model.SkillPro}, 900)
	assert.Empty(t, d.Locked)
	assert.NotNil(t, d.Locked)
	assert.Empty(t, d.Hints)
}

func TestResolveTierDefaults_BlankTierIsProFull(t *testing.T) {
	d := ResolveTierDefaults(model.TierSpec{}, 0)
	assert.Equal(t, model.TierSpec{Skill: model.SkillPro, Budget: model.BudgetFull}, d.Tier)
	assert.Empty(t, d.Locked)
}

func TestResolveTierDefaults_PostSectionFollowsHeightOnly(t *testing.T) {
	for _, tier := range []model.TierSpec{
		{Skill: model.SkillDIY, Budget: model.BudgetLow},
		{Skill: model.SkillDIY, Budget: model.BudgetFull},
		{Skill: model.SkillPro, Budget: model.BudgetFull},
	} {
		assert.Equal(t, 75.0, ResolveTierDefaults(tier, 0).PostSection)
		assert.Equal(t, 75.0, ResolveTierDefaults(tier, 500).PostSection, "the threshold itself is not over")
		assert.Equal(t, 100.0, ResolveTierDefaults(tier, 500.1).PostSection)
		assert.Equal(t, 100.0, ResolveTierDefaults(tier, 1200).PostSection)
	}
}

func TestResolveTierDefaults_DoesNotShareTableState(t *testing.T) {
	d := ResolveTierDefaults(model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetLow}, 0)
	d.MortarRatio[1] = 99

	again := ResolveTierDefaults(model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetLow}, 0)
	assert.Equal(t, "1:6", again.MortarRatio.String())
}
