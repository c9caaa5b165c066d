package model

import (
	"fmt"
	"testing"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.DefaultWastePct != DefaultWastePct {
		t.Errorf("expected default waste %f, got %f", DefaultWastePct, cfg.DefaultWastePct)
	}
	if cfg.DefaultSkill != SkillPro || cfg.DefaultBudget != BudgetFull {
		t.Errorf("expected Pro/Full default tier, got %s/%s", cfg.DefaultSkill, cfg.DefaultBudget)
	}
	if cfg.RecentFiles == nil {
		t.Error("RecentFiles should not be nil")
	}
}

func TestApplyToCommonFillsBlanks(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultWastePct = 7.5
	cfg.DefaultSkill = SkillDIY
	cfg.DefaultBudget = BudgetLow

	var c Common
	cfg.ApplyToCommon(&c)

	if c.Waste() != 7.5 {
		t.Errorf("expected waste 7.5, got %f", c.Waste())
	}
	if c.Tier.Skill != SkillDIY || c.Tier.Budget != BudgetLow {
		t.Errorf("expected DIY/Budget, got %s/%s", c.Tier.Skill, c.Tier.Budget)
	}
}

func TestApplyToCommonKeepsExplicitValues(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultWastePct = 20
	cfg.DefaultSkill = SkillDIY

	c := Common{Tier: TierSpec{Skill: SkillPro}}
	c.SetWaste(0)
	cfg.ApplyToCommon(&c)

	if c.Waste() != 0 {
		t.Errorf("explicit zero waste should be kept, got %f", c.Waste())
	}
	if c.Tier.Skill != SkillPro {
		t.Errorf("explicit skill should be kept, got %s", c.Tier.Skill)
	}
}

func TestAddRecentFile(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentFile("a.toml")
	cfg.AddRecentFile("b.toml")
	cfg.AddRecentFile("a.toml")

	if len(cfg.RecentFiles) != 2 {
		t.Fatalf("expected 2 recent files, got %d", len(cfg.RecentFiles))
	}
	if cfg.RecentFiles[0] != "a.toml" {
		t.Errorf("expected most recent first, got %s", cfg.RecentFiles[0])
	}

	for i := 0; i < MaxRecentFiles+5; i++ {
		cfg.AddRecentFile(fmt.Sprintf("f%d.toml", i))
	}
	if len(cfg.RecentFiles) != MaxRecentFiles {
		t.Errorf("expected list capped at %d, got %d", MaxRecentFiles, len(cfg.RecentFiles))
	}
}
