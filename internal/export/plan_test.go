package export

import (
	"testing"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

func TestPlanLines_DeckHorizontal(t *testing.T) {
	result := buildDeckResult(t)
	lines := planLines(result)

	joists, beams := 0, 0
	for _, l := range lines {
		switch l.Layer {
		case layerJoists:
			joists++
			if l.A.Y != l.B.Y || l.B.X != 4800 {
				t.Errorf("joist should run across the full width, got %+v", l)
			}
		case layerBeams:
			beams++
			if l.A.X != l.B.X || l.B.Y != 3600 {
				t.Errorf("beam should run the full length, got %+v", l)
			}
		}
	}
	if joists != 10 || beams != 4 {
		t.Errorf("expected 10 joists and 4 beams, got %d and %d", joists, beams)
	}
}

func TestPlanLines_DeckVerticalSwapsAxes(t *testing.T) {
	result := &model.BomResult{
		Calculator: model.CalculatorDeck,
		Layout: model.StructuralLayout{
			Joists: &model.LayoutResult{Positions: []float64{0, 400}, Member: 3600},
		},
	}
	lines := planLines(result)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1].A != (model.Point2D{X: 400, Y: 0}) || lines[1].B != (model.Point2D{X: 400, Y: 3600}) {
		t.Errorf("vertical joist should be drawn along y, got %+v", lines[1])
	}
}

func TestPlanLines_PavingRows(t *testing.T) {
	result := &model.BomResult{
		Calculator: model.CalculatorPaving,
		Geometry:   model.Geometry{Width: 1200, Length: 3000},
		Layout: model.StructuralLayout{
			Courses: []model.Course{{Index: 0, Elevation: 0}, {Index: 1, Elevation: 610}},
		},
	}
	lines := planLines(result)
	if len(lines) != 2 {
		t.Fatalf("expected 2 row lines, got %d", len(lines))
	}
	if lines[1].A.X != 610 || lines[1].B.Y != 3000 {
		t.Errorf("unexpected row line %+v", lines[1])
	}
}

func TestPlanPosts(t *testing.T) {
	result := buildDeckResult(t)
	posts := planPosts(result)
	if len(posts) != 12 {
		t.Fatalf("expected 12 posts, got %d", len(posts))
	}
	for _, p := range posts {
		if p.X < 0 || p.X > 4800 || p.Y < 0 || p.Y > 3600 {
			t.Errorf("post %+v lies outside the plan", p)
		}
	}

	if got := planPosts(&model.BomResult{}); got != nil {
		t.Errorf("expected no posts without beams, got %v", got)
	}
}
