// Package export writes calculation results to PDF, spreadsheet and DXF
// files, including QR-coded delivery labels.
package export

import (
	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// Drawing layers shared by the PDF plan page and the DXF export.
const (
	layerOutline = "OUTLINE"
	layerJoists  = "JOISTS"
	layerBeams   = "BEAMS"
	layerPosts   = "POSTS"
	layerCourses = "COURSES"
)

// planLine is one straight member drawn on the plan (mm).
type planLine struct {
	Layer string
	A, B  model.Point2D
}

// planLines turns the structural layout of a result into plan coordinates.
// Deck joists are drawn across the run at each joist position with beams
// perpendicular to them; paving rows and wall courses are drawn as row
// boundaries.
func planLines(r *model.BomResult) []planLine {
	layout := r.Layout
	g := r.Geometry

	// pt maps (along, across) onto plan x/y for the layout's orientation.
	pt := func(along, across float64) model.Point2D {
		if layout.Horizontal {
			return model.Point2D{X: across, Y: along}
		}
		return model.Point2D{X: along, Y: across}
	}

	var lines []planLine
	switch r.Calculator {
	case model.CalculatorDeck:
		if j := layout.Joists; j != nil {
			for _, p := range j.Positions {
				lines = append(lines, planLine{Layer: layerJoists, A: pt(p, 0), B: pt(p, j.Member)})
			}
		}
		if b := layout.Beams; b != nil {
			for _, p := range b.Positions {
				lines = append(lines, planLine{Layer: layerBeams, A: pt(0, p), B: pt(b.Member, p)})
			}
		}
	case model.CalculatorPaving:
		for _, c := range layout.Courses {
			lines = append(lines, planLine{
				Layer: layerCourses,
				A:     model.Point2D{X: c.Elevation, Y: 0},
				B:     model.Point2D{X: c.Elevation, Y: g.Length},
			})
		}
	case model.CalculatorWall:
		for _, c := range layout.Courses {
			lines = append(lines, planLine{
				Layer: layerCourses,
				A:     model.Point2D{X: 0, Y: c.Elevation},
				B:     model.Point2D{X: g.Width, Y: c.Elevation},
			})
		}
	}
	return lines
}

// planPosts returns the post centres of a deck: one post per post position
// under every beam.
func planPosts(r *model.BomResult) []model.Point2D {
	layout := r.Layout
	if layout.Beams == nil || layout.Posts == nil {
		return nil
	}
	var posts []model.Point2D
	for _, b := range layout.Beams.Positions {
		for _, p := range layout.Posts.Positions {
			if layout.Horizontal {
				posts = append(posts, model.Point2D{X: b, Y: p})
			} else {
				posts = append(posts, model.Point2D{X: p, Y: b})
			}
		}
	}
	return posts
}
