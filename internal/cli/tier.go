package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SiteTakeoff/internal/engine"
	"github.com/piwi3910/SiteTakeoff/internal/model"
)

func (c *CLI) tierCommand() *cobra.Command {
	var (
		skill   string
		budget  string
		height  float64
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Show the structural defaults of a skill and budget tier",
		Long: `Show the member sizes, spacings, mixes and depths a tier derives, and
which configuration fields it locks. Blank flags use the settings defaults.`,
		Example: fmt.Sprintf(`  %[1]s tier --skill diy --budget budget
  %[1]s tier --skill diy --height 900 --json`, appName),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := model.TierSpec{Skill: model.SkillTier(skill), Budget: model.BudgetTier(budget)}
			if spec.Skill == "" {
				spec.Skill = c.settings.DefaultSkill
			}
			if spec.Budget == "" {
				spec.Budget = c.settings.DefaultBudget
			}
			d := engine.ResolveTierDefaults(spec, height)

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			printTier(cmd, d)
			return nil
		},
	}

	cmd.Flags().StringVar(&skill, "skill", "", "skill tier (diy, pro)")
	cmd.Flags().StringVar(&budget, "budget", "", "budget tier (budget, full)")
	cmd.Flags().Float64Var(&height, "height", 0, "deck height in mm, used for the post section")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the defaults as JSON")

	return cmd
}

func printTier(cmd *cobra.Command, d model.TierDefaults) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleTitle.Render(d.Tier.String()+" tier"))
	printKeyValue(out, "Member depth", formatNumber(d.MemberDepth)+" mm")
	printKeyValue(out, "Member spacing", "≤ "+formatNumber(d.SpacingCeiling)+" mm")
	printKeyValue(out, "Beam and post bays", "≤ "+formatNumber(d.BeamCeiling)+" mm")
	printKeyValue(out, "Post section", formatNumber(d.PostSection)+" mm")
	printKeyValue(out, "Mortar", d.MortarRatio.String())
	printKeyValue(out, "Foundation depth", formatNumber(d.FoundationDepth)+" mm")
	printKeyValue(out, "Drainage depth", formatNumber(d.DrainageDepth)+" mm")
	printKeyValue(out, "Sub-base depth", formatNumber(d.SubBaseDepth)+" mm")

	if len(d.Locked) == 0 {
		printInfo(out, "Nothing is locked; values only fill blank fields")
		return
	}
	printInfo(out, "Locked: %s", strings.Join(d.Locked, ", "))
	for _, h := range d.Hints {
		printDetail(out, "%s", h)
	}
}
