package model

import "strings"

// ShapeKind discriminates the supported plan shapes.
type ShapeKind string

const (
	ShapeRectangle     ShapeKind = "rectangle"
	ShapeL             ShapeKind = "l_shape"
	ShapeT             ShapeKind = "t_shape"
	ShapeU             ShapeKind = "u_shape"
	ShapeCircle        ShapeKind = "circle"
	ShapeSemicircle    ShapeKind = "semicircle"
	ShapeQuarterCircle ShapeKind = "quarter_circle"
)

// ShapeKinds lists every shape in display order.
var ShapeKinds = []ShapeKind{
	ShapeRectangle, ShapeL, ShapeT, ShapeU, ShapeCircle, ShapeSemicircle, ShapeQuarterCircle,
}

// Normalize maps user spellings ("L", "l-shape", "Quarter Circle") onto a
// known kind. Unknown or blank kinds are treated as rectangles.
func (k ShapeKind) Normalize() ShapeKind {
	s := strings.ToLower(strings.TrimSpace(string(k)))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	switch s {
	case "l", "l_shape", "lshape":
		return ShapeL
	case "t", "t_shape", "tshape":
		return ShapeT
	case "u", "u_shape", "ushape":
		return ShapeU
	case "circle", "circular":
		return ShapeCircle
	case "semicircle", "semi_circle", "half_circle":
		return ShapeSemicircle
	case "quarter_circle", "quartercircle", "quarter":
		return ShapeQuarterCircle
	default:
		return ShapeRectangle
	}
}

// Circular reports whether the shape is defined by a radius.
func (k ShapeKind) Circular() bool {
	switch k.Normalize() {
	case ShapeCircle, ShapeSemicircle, ShapeQuarterCircle:
		return true
	}
	return false
}

// Side positions a cutout or extension against the left or right edge.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Normalize returns SideRight for "right"/"r" and SideLeft otherwise.
func (s Side) Normalize() Side {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "right", "r":
		return SideRight
	default:
		return SideLeft
	}
}

// ShapeSpec is the plan shape of a calculation. Kind selects which
// dimensions are required; all dimensions are millimetres.
//
//   - rectangle: Width, Length
//   - l_shape, u_shape: Width, Length, Cutout*
//   - t_shape: Width, Length, Extension*
//   - circle, semicircle, quarter_circle: Radius
type ShapeSpec struct {
	Kind   ShapeKind `json:"shape" toml:"shape"`
	Width  Number    `json:"width" toml:"width"`
	Length Number    `json:"length" toml:"length"`

	CutoutWidth  Number `json:"cutout_width,omitempty" toml:"cutout_width"`
	CutoutLength Number `json:"cutout_length,omitempty" toml:"cutout_length"`
	CutoutSide   Side   `json:"cutout_side,omitempty" toml:"cutout_side"`
	CutoutOffset Number `json:"cutout_offset,omitempty" toml:"cutout_offset"`

	ExtensionWidth  Number `json:"extension_width,omitempty" toml:"extension_width"`
	ExtensionLength Number `json:"extension_length,omitempty" toml:"extension_length"`
	ExtensionSide   Side   `json:"extension_side,omitempty" toml:"extension_side"`
	ExtensionOffset Number `json:"extension_offset,omitempty" toml:"extension_offset"`

	Radius Number `json:"radius,omitempty" toml:"radius"`
}

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Geometry is the resolved plan: area, the spans members are laid out
// along, and the outline handed to renderers.
type Geometry struct {
	Kind        ShapeKind `json:"shape"`
	AreaM2      float64   `json:"area_m2"`
	AreaMM2     float64   `json:"area_mm2"`
	Span        float64   `json:"span"`         // mm, across the principal direction
	Run         float64   `json:"run"`          // mm, effective run incl. any extension
	PerimeterMM float64   `json:"perimeter_mm"` // mm, straight and curved edges
	Width       float64   `json:"width"`        // bounding box width (mm)
	Length      float64   `json:"length"`       // bounding box length (mm)
	Outline     Outline   `json:"outline"`
}
