package engine

import (
	"math"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

const (
	// circleSegments is the number of straight segments used per full turn
	// when approximating circular outlines.
	circleSegments = 64

	// MaxDimension is the largest accepted linear dimension (mm). Larger
	// plans are treated as invalid input.
	MaxDimension = 1e6
)

// dimension reports whether v is a usable required dimension.
func dimension(v float64) bool {
	return v > 0 && v <= MaxDimension
}

// optional reports whether v is usable as an optional dimension, where
// zero or less means absent.
func optional(v float64) bool {
	return v <= MaxDimension && !math.IsNaN(v)
}

// ResolveShape computes the plan area, spans and outline of a shape. It
// returns false when a required dimension is missing, zero, negative or
// above MaxDimension, or when a cutout is wider or longer than the plan.
//
// Cutouts and extensions are optional on L, U and T shapes: a zero cutout
// leaves the full rectangle. Their side and offset move the notch or lobe in
// the outline (and so change the perimeter) but never change the area.
func ResolveShape(spec model.ShapeSpec) (model.Geometry, bool) {
	kind := spec.Kind.Normalize()
	if kind.Circular() {
		return resolveCircular(kind, spec.Radius.Float())
	}

	w, l := spec.Width.Float(), spec.Length.Float()
	if !dimension(w) || !dimension(l) {
		return model.Geometry{}, false
	}

	g := model.Geometry{Kind: kind, Span: w, Run: l}
	switch kind {
	case model.ShapeL, model.ShapeU:
		cw, cl := spec.CutoutWidth.Float(), spec.CutoutLength.Float()
		if cw > w || cl > l || math.IsNaN(cw) || math.IsNaN(cl) {
			return model.Geometry{}, false
		}
		if cw <= 0 || cl <= 0 {
			cw, cl = 0, 0
		}
		g.AreaMM2 = w*l - cw*cl
		if g.AreaMM2 <= 0 {
			return model.Geometry{}, false
		}
		offset := spec.CutoutOffset.Float()
		if kind == model.ShapeU && offset <= 0 {
			// A U notch without an explicit offset sits in the middle of the edge.
			offset = (w - cw) / 2
		}
		x0 := placeAlongEdge(w, cw, offset, spec.CutoutSide)
		g.Outline = notchedOutline(w, l, x0, cw, -cl)
	case model.ShapeT:
		ew, el := spec.ExtensionWidth.Float(), spec.ExtensionLength.Float()
		if !optional(ew) || !optional(el) {
			return model.Geometry{}, false
		}
		if ew <= 0 || el <= 0 {
			ew, el = 0, 0
		}
		g.AreaMM2 = w*l + ew*el
		g.Run = l + el
		x0 := placeAlongEdge(w, ew, spec.ExtensionOffset.Float(), spec.ExtensionSide)
		g.Outline = notchedOutline(w, l, x0, ew, el)
	default:
		g.AreaMM2 = w * l
		g.Outline = notchedOutline(w, l, 0, 0, 0)
	}

	g.AreaM2 = g.AreaMM2 / 1e6
	g.PerimeterMM = outlineLength(g.Outline)
	min, max := g.Outline.BoundingBox()
	g.Width = max.X - min.X
	g.Length = max.Y - min.Y
	return g, true
}

func resolveCircular(kind model.ShapeKind, r float64) (model.Geometry, bool) {
	if !dimension(r) {
		return model.Geometry{}, false
	}
	g := model.Geometry{Kind: kind}
	switch kind {
	case model.ShapeSemicircle:
		g.AreaMM2 = math.Pi * r * r / 2
		g.Span, g.Run = 2*r, r
		g.PerimeterMM = math.Pi*r + 2*r
		g.Outline = arcOutline(r, 0, math.Pi, model.Point2D{X: r, Y: 0}, false)
	case model.ShapeQuarterCircle:
		g.AreaMM2 = math.Pi * r * r / 4
		g.Span, g.Run = r, r
		g.PerimeterMM = math.Pi*r/2 + 2*r
		g.Outline = arcOutline(r, 0, math.Pi/2, model.Point2D{}, true)
	default:
		g.AreaMM2 = math.Pi * r * r
		g.Span, g.Run = 2*r, 2*r
		g.PerimeterMM = 2 * math.Pi * r
		g.Outline = arcOutline(r, 0, 2*math.Pi, model.Point2D{X: r, Y: r}, false)
	}
	g.AreaM2 = g.AreaMM2 / 1e6
	min, max := g.Outline.BoundingBox()
	g.Width = max.X - min.X
	g.Length = max.Y - min.Y
	return g, true
}

// Diagonal returns the hypotenuse of the plan's span and run, the board run
// used when boards are laid at 45 degrees.
func Diagonal(g model.Geometry) float64 {
	return math.Hypot(g.Span, g.Run)
}

// placeAlongEdge returns the x position of a feature of width fw on an edge
// of width w, measured from the chosen side and clamped to stay on the edge.
func placeAlongEdge(w, fw, offset float64, side model.Side) float64 {
	if offset < 0 {
		offset = 0
	}
	x0 := offset
	if side.Normalize() == model.SideRight {
		x0 = w - offset - fw
	}
	lo, hi := math.Min(0, w-fw), math.Max(0, w-fw)
	return math.Max(lo, math.Min(hi, x0))
}

// notchedOutline builds the rectangle 0..w x 0..l with a rectangular feature
// on the far edge (y = l) spanning x0..x0+fw. A negative depth cuts a notch
// into the plan, a positive depth adds a lobe beyond the edge.
func notchedOutline(w, l, x0, fw, depth float64) model.Outline {
	pts := model.Outline{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: l}}
	if fw > 0 && depth != 0 {
		x1 := x0 + fw
		pts = append(pts,
			model.Point2D{X: x1, Y: l},
			model.Point2D{X: x1, Y: l + depth},
			model.Point2D{X: x0, Y: l + depth},
			model.Point2D{X: x0, Y: l},
		)
	}
	pts = append(pts, model.Point2D{X: 0, Y: l})
	return SimplifyOutline(pts)
}

// arcOutline approximates an arc of radius r around centre. When wedge is
// set the centre itself is part of the outline (a pie slice); otherwise the
// arc's chord closes the polygon.
func arcOutline(r, from, to float64, centre model.Point2D, wedge bool) model.Outline {
	steps := int(math.Round(circleSegments * (to - from) / (2 * math.Pi)))
	if steps < 1 {
		steps = 1
	}
	full := to-from >= 2*math.Pi
	var pts model.Outline
	if wedge {
		pts = append(pts, centre)
	}
	for i := 0; i <= steps; i++ {
		if full && i == steps {
			break
		}
		a := from + (to-from)*float64(i)/float64(steps)
		pts = append(pts, model.Point2D{
			X: centre.X + r*math.Cos(a),
			Y: centre.Y + r*math.Sin(a),
		})
	}
	return pts
}

// SimplifyOutline removes repeated points and points lying on a straight
// line between their neighbours, including zero-width spikes.
func SimplifyOutline(pts model.Outline) model.Outline {
	const eps = 1e-9
	for changed := true; changed && len(pts) > 3; {
		changed = false
		for i := 0; i < len(pts); i++ {
			prev := pts[(i+len(pts)-1)%len(pts)]
			p := pts[i]
			next := pts[(i+1)%len(pts)]
			cross := (p.X-prev.X)*(next.Y-p.Y) - (p.Y-prev.Y)*(next.X-p.X)
			same := math.Abs(p.X-prev.X) < eps && math.Abs(p.Y-prev.Y) < eps
			if same || math.Abs(cross) < eps {
				pts = append(pts[:i:i], pts[i+1:]...)
				changed = true
				break
			}
		}
	}
	return pts
}

// outlineLength returns the perimeter of a closed outline.
func outlineLength(o model.Outline) float64 {
	var total float64
	for i := range o {
		next := o[(i+1)%len(o)]
		total += math.Hypot(next.X-o[i].X, next.Y-o[i].Y)
	}
	return total
}
