package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to calculations that do not set them
	DefaultWastePct float64    `json:"default_waste_pct" toml:"default_waste_pct"`
	DefaultSkill    SkillTier  `json:"default_skill" toml:"default_skill"`
	DefaultBudget   BudgetTier `json:"default_budget" toml:"default_budget"`

	// Application preferences
	OutputDir   string   `json:"output_dir" toml:"output_dir"` // where exports land, "" = working directory
	ServerAddr  string   `json:"server_addr" toml:"server_addr"`
	RecentFiles []string `json:"recent_files" toml:"recent_files"`
}

// MaxRecentFiles caps the recent files list.
const MaxRecentFiles = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultWastePct: DefaultWastePct,
		DefaultSkill:    SkillPro,
		DefaultBudget:   BudgetFull,
		OutputDir:       "",
		ServerAddr:      ":8080",
		RecentFiles:     []string{},
	}
}

// ApplyToCommon fills the waste allowance and tier of a calculation that
// left them blank. Values the calculation sets itself are kept.
func (c AppConfig) ApplyToCommon(common *Common) {
	if common.WastePct == nil {
		common.SetWaste(c.DefaultWastePct)
	}
	if common.Tier.Skill == "" {
		common.Tier.Skill = c.DefaultSkill
	}
	if common.Tier.Budget == "" {
		common.Tier.Budget = c.DefaultBudget
	}
}

// AddRecentFile moves path to the front of the recent files list.
func (c *AppConfig) AddRecentFile(path string) {
	files := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > MaxRecentFiles {
		files = files[:MaxRecentFiles]
	}
	c.RecentFiles = files
}
