package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

const (
	// positionTolerance merges member positions closer than this (mm).
	positionTolerance = 1e-6

	// minBayWidth is the narrowest bay that still receives noggins (mm).
	minBayWidth = 10.0

	// ceilTolerance stops exact divisions such as 3600/400 from gaining a
	// spurious extra bay through floating point noise.
	ceilTolerance = 1e-9

	// maxBays caps the bays laid between two fixed members. Spacings too
	// small to respect it are widened.
	maxBays = 10000

	// maxNoggins caps the noggins of one layout. A pitch too small to
	// respect it is widened.
	maxNoggins = 100000
)

// LayoutOptions constrains a spacing layout.
type LayoutOptions struct {
	Inset      float64 // extra members this far in from each end (border framing), 0 = none
	MaxSpacing float64 // cap on the nominal spacing, 0 = no cap
}

// LayoutPositions places members along a run of the given length. Both ends
// always carry a member. Every interval between fixed members is divided
// into equal bays no wider than the nominal spacing, so there is never a
// short leftover bay at one end.
//
// A run shorter than one spacing collapses to its two end members; a zero
// run yields the single position 0.
func LayoutPositions(run, nominal float64, opts LayoutOptions) model.LayoutResult {
	if run <= 0 || math.IsNaN(run) {
		return model.LayoutResult{Positions: []float64{0}, Count: 1}
	}

	spacing := nominal
	if opts.MaxSpacing > 0 && (spacing <= 0 || spacing > opts.MaxSpacing) {
		spacing = opts.MaxSpacing
	}

	anchors := []float64{0, run}
	inner := run
	if opts.Inset > 0 && 2*opts.Inset < run {
		anchors = []float64{0, opts.Inset, run - opts.Inset, run}
		inner = run - 2*opts.Inset
	}

	positions := make([]float64, 0, len(anchors))
	realised := inner
	for i := 0; i+1 < len(anchors); i++ {
		from, to := anchors[i], anchors[i+1]
		positions = append(positions, from)
		if spacing <= 0 {
			continue
		}
		n := bayCount(to-from, spacing)
		step := (to - from) / float64(n)
		for k := 1; k < n; k++ {
			positions = append(positions, from+float64(k)*step)
		}
		if len(anchors) == 2 || i == 1 {
			realised = step
		}
	}
	positions = append(positions, run)
	positions = dedupePositions(positions)

	return model.LayoutResult{
		Positions: positions,
		Count:     len(positions),
		Spacing:   realised,
		Length:    run,
	}
}

// bayCount returns how many equal bays of at most spacing fit a span,
// never more than maxBays.
func bayCount(span, spacing float64) int {
	n := math.Ceil(span/spacing - ceilTolerance)
	switch {
	case !(n >= 1):
		return 1
	case n > maxBays:
		return maxBays
	}
	return int(n)
}

// clampCount converts a whole-unit quantity to an int, saturating at
// math.MaxInt32 and mapping NaN or negative values to 0.
func clampCount(v float64) int {
	switch {
	case !(v > 0):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	}
	return int(v)
}

func dedupePositions(positions []float64) []float64 {
	sort.Float64s(positions)
	out := positions[:0]
	for _, p := range positions {
		if len(out) > 0 && p-out[len(out)-1] < positionTolerance {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CeilingSpacing divides a span into the fewest equal bays that are each no
// wider than ceiling, returning the bay width and count. It is used for
// beams and posts where the spacing is derived rather than entered.
func CeilingSpacing(span, ceiling float64) (float64, int) {
	if span <= 0 {
		return 0, 0
	}
	if ceiling <= 0 {
		return span, 1
	}
	n := math.Max(math.Ceil(span/ceiling), 1)
	if span/n > ceiling {
		n++
	}
	return span / n, clampCount(n)
}

// StaggeredNoggins places cross members inside each bay of a primary
// layout at a fixed pitch along the members' length. Odd bays are shifted
// by half a pitch so noggins never line up into a continuous seam. Bays
// narrower than 10 mm are skipped, and the pitch is widened when it would
// place more than maxNoggins.
func StaggeredNoggins(positions []float64, length, pitch float64) []model.Noggin {
	if pitch <= 0 || length <= 0 || len(positions) < 2 {
		return nil
	}
	if bays := float64(len(positions) - 1); bays*length/pitch > maxNoggins {
		pitch = bays * length / maxNoggins
	}
	var noggins []model.Noggin
	for bay := 0; bay+1 < len(positions); bay++ {
		from, to := positions[bay], positions[bay+1]
		if to-from < minBayWidth {
			continue
		}
		start := pitch
		if bay%2 == 1 {
			start = pitch / 2
		}
		for along := start; along < length-ceilTolerance; along += pitch {
			noggins = append(noggins, model.Noggin{Bay: bay, From: from, To: to, Along: along})
		}
	}
	return noggins
}

// StaggeredCourses lays rows of units of the given length up to height,
// every other row starting with a half unit.
func StaggeredCourses(height, courseHeight, unitLength, rowLength float64) []model.Course {
	return layoutCourses(height, courseHeight, unitLength, rowLength, true)
}

// GridCourses lays rows of units with every joint lined up.
func GridCourses(height, courseHeight, unitLength, rowLength float64) []model.Course {
	return layoutCourses(height, courseHeight, unitLength, rowLength, false)
}

func layoutCourses(height, courseHeight, unitLength, rowLength float64, stagger bool) []model.Course {
	if height <= 0 || courseHeight <= 0 || unitLength <= 0 || rowLength <= 0 {
		return nil
	}
	n := bayCount(height, courseHeight)
	courses := make([]model.Course, n)
	for i := range courses {
		offset := 0.0
		if stagger && i%2 == 1 {
			offset = unitLength / 2
		}
		courses[i] = model.Course{
			Index:     i,
			Elevation: float64(i) * courseHeight,
			Offset:    offset,
			Units:     bayCount(rowLength+offset, unitLength),
		}
	}
	return courses
}
