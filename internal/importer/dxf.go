package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/SiteTakeoff/internal/engine"
	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

const (
	// chainTolerance is the largest gap between LINE/ARC endpoints that
	// still joins them into one outline (drawing units).
	chainTolerance = 0.01
	// snapGrid rounds plan coordinates (mm) before shape matching.
	snapGrid = 0.01

	arcSegments    = 32
	circleSegments = 64
)

// PlanResult holds the plan shape read from a DXF drawing.
type PlanResult struct {
	Shape    model.ShapeSpec
	Outline  model.Outline // mm, bounding box starting at (0, 0)
	Errors   []string
	Warnings []string
}

// segment is one straight piece of a loose LINE or ARC, chained into
// closed outlines after all entities are read.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// closedShape is a closed outline found in the drawing. Circles keep their
// radius so they map onto the circle shape instead of a polygon.
type closedShape struct {
	outline model.Outline
	radius  float64
}

// ImportDXF reads the plan outline of a deck or patio from a DXF drawing.
// The largest closed shape (LWPOLYLINE, CIRCLE, or chain of LINEs and ARCs)
// is taken as the plan. scale converts drawing units to millimetres
// (1000 for drawings in metres); zero or less means 1.
//
// Rectilinear outlines are matched to a rectangle, L, U or T shape and
// circles to a circle. Any other outline becomes its bounding rectangle,
// with a warning.
func ImportDXF(path string, scale float64) PlanResult {
	result := PlanResult{}
	if scale <= 0 {
		scale = 1
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []closedShape
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e)
			if len(outline) >= 3 {
				shapes = append(shapes, closedShape{outline: outline})
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}
		case *entity.Circle:
			shapes = append(shapes, closedShape{outline: circleToOutline(e), radius: e.Radius})
		case *entity.Arc:
			segments = append(segments, pointsToSegments(arcToPoints(e))...)
		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})
		}
	}
	for _, o := range chainSegments(segments, chainTolerance) {
		shapes = append(shapes, closedShape{outline: o})
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}
	sort.SliceStable(shapes, func(i, j int) bool {
		return outlineArea(shapes[i].outline) > outlineArea(shapes[j].outline)
	})
	if len(shapes) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d closed shapes, using the largest as the plan", len(shapes)))
	}

	plan := shapes[0]
	outline := normalizeOutline(scaleOutline(plan.outline, scale))
	min, max := outline.BoundingBox()
	if max.X-min.X < snapGrid || max.Y-min.Y < snapGrid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Plan outline is degenerate (%.2f x %.2f mm)", max.X-min.X, max.Y-min.Y))
		return result
	}
	result.Outline = outline

	if plan.radius > 0 {
		result.Shape = model.ShapeSpec{Kind: model.ShapeCircle, Radius: model.Number(plan.radius * scale)}
		return result
	}

	spec, ok := ShapeFromOutline(outline)
	if !ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Outline with %d vertices is not a rectangle, L, U or T shape; using its %.0f x %.0f mm bounding rectangle",
				len(outline), spec.Width.Float(), spec.Length.Float()))
	}
	result.Shape = spec
	return result
}

// ShapeFromOutline matches a closed plan outline (mm) to a parametric
// shape. Rectilinear outlines in any of the four orientations are matched
// to a rectangle, L, U or T shape whose area equals the outline's. When no
// shape matches it returns the bounding rectangle and false.
func ShapeFromOutline(o model.Outline) (model.ShapeSpec, bool) {
	pts := engine.SimplifyOutline(snapOutline(o))
	min, max := pts.BoundingBox()
	bounding := model.ShapeSpec{
		Kind:   model.ShapeRectangle,
		Width:  model.Number(max.X - min.X),
		Length: model.Number(max.Y - min.Y),
	}
	if len(pts) < 4 || !rectilinear(pts) {
		return bounding, false
	}

	area := outlineArea(pts)
	for _, orient := range orientations {
		candidate := normalizeOutline(transform(pts, orient))
		spec, ok := matchCanonical(candidate)
		if !ok {
			continue
		}
		g, ok := engine.ResolveShape(spec)
		if ok && math.Abs(g.AreaMM2-area) <= 1e-6*area {
			return spec, true
		}
	}
	return bounding, false
}

// orientations turn an outline so that a notch or extension lies on the
// far edge (y = max), where the parametric shapes place it.
var orientations = []func(model.Point2D) model.Point2D{
	func(p model.Point2D) model.Point2D { return p },
	func(p model.Point2D) model.Point2D { return model.Point2D{X: p.X, Y: -p.Y} },
	func(p model.Point2D) model.Point2D { return model.Point2D{X: p.Y, Y: p.X} },
	func(p model.Point2D) model.Point2D { return model.Point2D{X: p.Y, Y: -p.X} },
}

func transform(o model.Outline, fn func(model.Point2D) model.Point2D) model.Outline {
	out := make(model.Outline, len(o))
	for i, p := range o {
		out[i] = fn(p)
	}
	return out
}

// Bounding box corners present in an outline.
const (
	cornerBL = 1 << iota
	cornerBR
	cornerTR
	cornerTL
	cornersAll = cornerBL | cornerBR | cornerTR | cornerTL
)

// matchCanonical matches an outline normalized to start at (0, 0) whose
// feature, if any, is on the top edge.
func matchCanonical(pts model.Outline) (model.ShapeSpec, bool) {
	_, max := pts.BoundingBox()
	w, l := max.X, max.Y
	spec := model.ShapeSpec{Kind: model.ShapeRectangle, Width: model.Number(w), Length: model.Number(l)}

	corners := 0
	var inner []model.Point2D
	for _, p := range pts {
		onX := near(p.X, 0) || near(p.X, w)
		onY := near(p.Y, 0) || near(p.Y, l)
		switch {
		case near(p.X, 0) && near(p.Y, 0):
			corners |= cornerBL
		case near(p.X, w) && near(p.Y, 0):
			corners |= cornerBR
		case near(p.X, w) && near(p.Y, l):
			corners |= cornerTR
		case near(p.X, 0) && near(p.Y, l):
			corners |= cornerTL
		}
		if !onX && !onY {
			inner = append(inner, p)
		}
	}

	switch len(pts) {
	case 4:
		return spec, true
	case 6:
		if len(inner) != 1 {
			return spec, false
		}
		r := inner[0]
		spec.Kind = model.ShapeL
		spec.CutoutLength = model.Number(l - r.Y)
		switch corners {
		case cornerBL | cornerBR | cornerTR:
			spec.CutoutWidth = model.Number(r.X)
			spec.CutoutSide = model.SideLeft
		case cornerBL | cornerBR | cornerTL:
			spec.CutoutWidth = model.Number(w - r.X)
			spec.CutoutSide = model.SideRight
		default:
			return spec, false
		}
		return spec, true
	case 8:
		if len(inner) != 2 || !near(inner[0].Y, inner[1].Y) {
			return spec, false
		}
		x0, x1 := math.Min(inner[0].X, inner[1].X), math.Max(inner[0].X, inner[1].X)
		y := inner[0].Y
		switch corners {
		case cornersAll:
			spec.Kind = model.ShapeU
			spec.CutoutWidth = model.Number(x1 - x0)
			spec.CutoutLength = model.Number(l - y)
			spec.CutoutSide = model.SideLeft
			spec.CutoutOffset = model.Number(x0)
		case cornerBL | cornerBR:
			spec.Kind = model.ShapeT
			spec.Length = model.Number(y)
			spec.ExtensionWidth = model.Number(x1 - x0)
			spec.ExtensionLength = model.Number(l - y)
			spec.ExtensionSide = model.SideLeft
			spec.ExtensionOffset = model.Number(x0)
		default:
			return spec, false
		}
		return spec, true
	}
	return spec, false
}

func near(a, b float64) bool {
	return math.Abs(a-b) < snapGrid
}

func rectilinear(o model.Outline) bool {
	for i := range o {
		next := o[(i+1)%len(o)]
		if !near(o[i].X, next.X) && !near(o[i].Y, next.Y) {
			return false
		}
	}
	return true
}

func snapOutline(o model.Outline) model.Outline {
	return transform(o, func(p model.Point2D) model.Point2D {
		return model.Point2D{X: math.Round(p.X/snapGrid) * snapGrid, Y: math.Round(p.Y/snapGrid) * snapGrid}
	})
}

func scaleOutline(o model.Outline, scale float64) model.Outline {
	if scale == 1 {
		return o
	}
	return transform(o, func(p model.Point2D) model.Point2D {
		return model.Point2D{X: p.X * scale, Y: p.Y * scale}
	})
}

// lwPolylineToOutline converts an LWPOLYLINE to an outline. Vertices with a
// bulge are followed by the interpolated arc to the next vertex.
func lwPolylineToOutline(lw *entity.LwPolyline) model.Outline {
	var outline model.Outline
	n := len(lw.Vertices)
	for i := 0; i < n; i++ {
		v := lw.Vertices[i]
		current := model.Point2D{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) <= 1e-9 {
			outline = append(outline, current)
			continue
		}
		nv := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(current, model.Point2D{X: nv[0], Y: nv[1]}, bulge, arcSegments)
		outline = append(outline, arc[:len(arc)-1]...)
	}
	return outline
}

// bulgeArcPoints interpolates the arc between two vertices. The DXF bulge
// is the tangent of a quarter of the included angle; positive bulges turn
// counter-clockwise.
func bulgeArcPoints(p1, p2 model.Point2D, bulge float64, segments int) model.Outline {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return model.Outline{p1, p2}
	}

	sweep := 4 * math.Atan(bulge)
	radius := chord / (2 * math.Sin(math.Abs(sweep)/2))
	// centre lies on the chord's perpendicular bisector
	apothem := radius * math.Cos(sweep/2)
	sign := 1.0
	if bulge < 0 {
		sign = -1
	}
	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	cx := mx - sign*apothem*dy/chord
	cy := my + sign*apothem*dx/chord

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	pts := make(model.Outline, segments+1)
	for i := 0; i <= segments; i++ {
		a := start + sweep*float64(i)/float64(segments)
		pts[i] = model.Point2D{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	pts[segments] = p2
	return pts
}

func circleToOutline(c *entity.Circle) model.Outline {
	outline := make(model.Outline, circleSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := range outline {
		angle := 2 * math.Pi * float64(i) / circleSegments
		outline[i] = model.Point2D{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return outline
}

// arcToPoints converts an ARC (angles in degrees, counter-clockwise) to
// points along it.
func arcToPoints(a *entity.Arc) []model.Point2D {
	cx, cy, r := a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}

	pts := make([]model.Point2D, arcSegments+1)
	for i := range pts {
		angle := start + (end-start)*float64(i)/arcSegments
		pts[i] = model.Point2D{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

func pointsToSegments(pts []model.Point2D) []segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments joins segments whose endpoints meet within tolerance into
// closed outlines. Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []model.Outline {
	used := make([]bool, len(segs))
	var outlines []model.Outline

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []model.Point2D{segs[start].start, segs[start].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) < 4 || !pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			continue
		}
		outlines = append(outlines, model.Outline(chain[:len(chain)-1]))
	}
	return outlines
}

func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// outlineArea returns the absolute shoelace area of a polygon.
func outlineArea(o model.Outline) float64 {
	if len(o) < 3 {
		return 0
	}
	var area float64
	for i := range o {
		j := (i + 1) % len(o)
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}

// normalizeOutline translates the outline so its bounding box starts at (0, 0).
func normalizeOutline(o model.Outline) model.Outline {
	if len(o) == 0 {
		return o
	}
	min, _ := o.BoundingBox()
	return o.Translate(-min.X, -min.Y)
}
