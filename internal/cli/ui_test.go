package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{35, "35"},
		{0.5, "0.5"},
		{16.8, "16.8"},
		{1.8605, "1.86"},
		{2.999, "3"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrintResult(t *testing.T) {
	r := &model.BomResult{
		Calculator: model.CalculatorWall,
		Shape:      model.ShapeRectangle,
		AreaM2:     1.8,
		WastePct:   10,
		Stats:      []model.Stat{{Label: "Courses", Value: 3}},
		Sections: []model.BomSection{
			{Title: "Walling", AccentLabel: "Structure", Rows: []model.BomRow{{Item: "Solid block", Quantity: 20, Unit: "blocks"}}},
			{Title: "Mortar", AccentLabel: "Bedding", Rows: []model.BomRow{{Item: "Cement", Quantity: 2, Unit: "bags", Note: "25 kg"}}},
		},
		Totals: []model.BomTotal{{Item: "Cement", Quantity: 2, Unit: "bags", Sections: 1}},
		Tier:   model.TierDefaults{Tier: model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetLow}, Hints: []string{"mortar 1:3"}},
		Locked: []string{"mortar_ratio"},
	}

	var buf bytes.Buffer
	printResult(&buf, r)
	out := buf.String()

	for _, want := range []string{"Wall takeoff", "DIY Budget", "Courses", "Walling", "Solid block", "Mortar", "25 kg", "Material totals", "mortar_ratio", "mortar 1:3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
