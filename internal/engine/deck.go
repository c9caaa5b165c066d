package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

const (
	// diagonalAllowance inflates the board count of 45 degree decking to
	// cover trim loss at the edges.
	diagonalAllowance = 0.15

	minPostHoleDepth   = 450.0  // mm
	stockBoardLength   = 3600.0 // mm, border boards when no stock length is set
	screwsPerCrossing  = 2      // per board per joist
	screwBoxSize       = 200
	hangersPerJoist    = 2
	coachBoltsPerPost  = 2
	postConcreteLabel  = "Post concrete"
	deckSectionDecking = "Decking"
)

var postConcreteRatio = model.MixRatio{1, 2, 4}

var deckAssembly = assembly[model.DeckConfig]{
	calculator: model.CalculatorDeck,
	locks: []fieldLock{
		{generic: model.FieldMemberDepth, fields: []string{"joist_depth", "beam_depth"}},
		{generic: model.FieldSpacing, fields: []string{"joist_spacing"}},
		{generic: model.FieldBeamSpacing, fields: []string{"beam_spacing"}},
		{generic: model.FieldPostSpacing, fields: []string{"post_spacing"}},
		{generic: model.FieldPostSection, fields: []string{"post_section"}},
	},
	common:    func(c *model.DeckConfig) *model.Common { return &c.Common },
	height:    func(c *model.DeckConfig) float64 { return c.Height.Float() },
	applyTier: applyDeckTier,
	shape:     func(c *model.DeckConfig) model.ShapeSpec { return c.ShapeSpec },
	layout:    deckLayout,
	mixes:     deckMixes,
	materials: deckMaterials,
}

func applyDeckTier(c *model.DeckConfig, t model.TierDefaults) {
	def := model.DefaultDeckConfig()
	fillBlank(&c.BoardWidth, def.BoardWidth.Float())
	fillBlank(&c.BoardThickness, def.BoardThickness.Float())
	fillBlank(&c.JoistThickness, def.JoistThickness.Float())
	fillBlank(&c.BeamThickness, def.BeamThickness.Float())
	fillBlank(&c.PostHoleSize, def.PostHoleSize.Float())
	fillBlank(&c.PostHoleDepth, def.PostHoleDepth.Float())
	if c.BoardGap < 0 {
		c.BoardGap = 0
	}
	if c.NogginSpacing < 0 {
		c.NogginSpacing = 0
	}
	if c.Height < 0 {
		c.Height = 0
	}

	if t.IsLocked(model.FieldMemberDepth) {
		c.JoistDepth = model.Number(t.MemberDepth)
		c.BeamDepth = model.Number(t.MemberDepth)
	} else {
		fillBlank(&c.JoistDepth, t.MemberDepth)
		fillBlank(&c.BeamDepth, t.MemberDepth)
	}
	if t.IsLocked(model.FieldSpacing) {
		c.JoistSpacing = model.Number(t.SpacingCeiling)
	} else {
		fillBlank(&c.JoistSpacing, t.SpacingCeiling)
	}
	// Derived in the layout stage from the spans.
	if t.IsLocked(model.FieldBeamSpacing) {
		c.BeamSpacing = 0
	}
	if t.IsLocked(model.FieldPostSpacing) {
		c.PostSpacing = 0
	}
	if t.IsLocked(model.FieldPostSection) {
		c.PostSection = model.Number(t.PostSection)
	} else {
		fillBlank(&c.PostSection, t.PostSection)
	}
}

// deckRun returns the length boards run along and the width they are laid
// across. Joists are positioned along the run and span the width.
func deckRun(c *model.DeckConfig, g model.Geometry) (run, across float64) {
	if c.Direction.Normalize() == model.BoardsVertical {
		return g.Span, g.Run
	}
	return g.Run, g.Span
}

func holeDepth(c *model.DeckConfig) float64 {
	return math.Max(c.PostHoleDepth.Float(), minPostHoleDepth)
}

// postLength is the post height above ground plus the length set in the hole.
func postLength(c *model.DeckConfig) float64 {
	above := c.Height.Float() - c.BoardThickness.Float() - c.JoistDepth.Float() - c.BeamDepth.Float()
	return math.Max(above, 0) + holeDepth(c)
}

func deckLayout(_ *Engine, c *model.DeckConfig, g model.Geometry, t model.TierDefaults) model.StructuralLayout {
	dir := c.Direction.Normalize()
	run, across := deckRun(c, g)

	pitch := c.BoardWidth.Float() + c.BoardGap.Float()
	coverage := g.AreaMM2
	if c.BorderBoard {
		coverage = math.Max(0, coverage-g.PerimeterMM*pitch)
	}
	boardRun := run
	if dir == model.BoardsDiagonal {
		boardRun = Diagonal(g)
	}
	rows := coverage / boardRun / pitch
	if dir == model.BoardsDiagonal {
		rows *= 1 + diagonalAllowance
	}
	boards := &model.BoardLayout{
		Direction: string(dir),
		Pitch:     pitch,
		Rows:      clampCount(model.CeilUnits(rows)),
		Length:    boardRun,
	}

	opts := LayoutOptions{}
	if c.BorderBoard {
		opts.Inset = c.BoardWidth.Float()
	}
	if t.IsLocked(model.FieldSpacing) {
		opts.MaxSpacing = t.SpacingCeiling
	}
	joists := LayoutPositions(run, c.JoistSpacing.Float(), opts)
	joists.Member = across

	beamSpacing := c.BeamSpacing.Float()
	if beamSpacing <= 0 {
		beamSpacing, _ = CeilingSpacing(across, t.BeamCeiling)
	}
	beams := LayoutPositions(across, beamSpacing, LayoutOptions{})
	beams.Member = run

	postSpacing := c.PostSpacing.Float()
	if postSpacing <= 0 {
		postSpacing, _ = CeilingSpacing(run, t.BeamCeiling)
	}
	posts := LayoutPositions(run, postSpacing, LayoutOptions{})
	posts.Member = postLength(c)

	return model.StructuralLayout{
		Boards:     boards,
		Joists:     &joists,
		Beams:      &beams,
		Posts:      &posts,
		Noggins:    StaggeredNoggins(joists.Positions, across, c.NogginSpacing.Float()),
		Horizontal: dir != model.BoardsVertical,
	}
}

func postCount(layout model.StructuralLayout) int {
	return layout.Beams.Count * layout.Posts.Count
}

func deckMixes(_ *Engine, c *model.DeckConfig, _ model.Geometry, layout model.StructuralLayout) []model.MixResult {
	hole := c.PostHoleSize.Float()
	section := c.PostSection.Float()
	perHole := math.Max(hole*hole-section*section, 0) * holeDepth(c) / 1e9
	wet := float64(postCount(layout)) * perHole
	return []model.MixResult{
		ResolveMix(postConcreteLabel, wet, postConcreteRatio, concreteMaterials, DefaultBulking),
	}
}

// boardsToBuy converts board rows into stock boards. With no stock length
// each row is one board cut to the run.
func boardsToBuy(rows int, length, stock float64) float64 {
	if stock <= 0 || length <= 0 {
		return float64(rows)
	}
	if length > stock {
		return float64(rows) * math.Ceil(length/stock-ceilTolerance)
	}
	return float64(rows) / math.Floor(stock/length+ceilTolerance)
}

func deckMaterials(_ *Engine, c *model.DeckConfig, g model.Geometry, layout model.StructuralLayout, mixes []model.MixResult, bom *BOM) []model.Stat {
	boards, joists, beams, posts := layout.Boards, layout.Joists, layout.Beams, layout.Posts
	nPosts := postCount(layout)
	stock := c.BoardLength.Float()

	decking := bom.Section(deckSectionDecking, "Surface")
	boardLength := boards.Length
	if stock > 0 {
		boardLength = stock
	}
	decking.Count("Deck board", boardsToBuy(boards.Rows, boards.Length, stock), "boards",
		fmt.Sprintf("%.0f x %.0f mm, %.0f mm long", c.BoardWidth.Float(), c.BoardThickness.Float(), boardLength))
	if c.BorderBoard {
		borderStock := stock
		if borderStock <= 0 {
			borderStock = stockBoardLength
		}
		decking.Count("Border board", g.PerimeterMM/borderStock, "boards",
			fmt.Sprintf("%.1f m picture frame, %.0f mm lengths", g.PerimeterMM/1000, borderStock))
	}

	framing := bom.Section("Framing", "Structure")
	framing.Exact("Joist", float64(joists.Count), "lengths",
		fmt.Sprintf("%.0f x %.0f mm, %.0f mm long", c.JoistThickness.Float(), c.JoistDepth.Float(), joists.Member))
	framing.Exact("Noggin", float64(len(layout.Noggins)), "pieces",
		fmt.Sprintf("%.0f x %.0f mm, cut to bay", c.JoistThickness.Float(), c.JoistDepth.Float()))
	framing.Exact("Beam", float64(beams.Count), "lengths",
		fmt.Sprintf("%.0f x %.0f mm, %.0f mm long", c.BeamThickness.Float(), c.BeamDepth.Float(), beams.Member))
	framing.Exact("Post", float64(nPosts), "posts",
		fmt.Sprintf("%.0f x %.0f mm, %.0f mm long", c.PostSection.Float(), c.PostSection.Float(), posts.Member))

	hardware := bom.Section("Hardware", "Fixings")
	hardware.Exact("Joist hanger", float64(hangersPerJoist*joists.Count), "hangers", "")
	hardware.Packs("Deck screws", float64(boards.Rows*joists.Count*screwsPerCrossing), screwBoxSize, "boxes", "")
	hardware.Exact("Coach bolt", float64(coachBoltsPerPost*nPosts), "bolts", "post to beam")

	foundation := bom.Section("Foundation", "Groundwork")
	for _, mix := range mixes {
		foundation.MixBags(mix)
	}
	foundation.Measure("Weed membrane", g.AreaM2, "m²", "under the deck")

	var wet float64
	for _, mix := range mixes {
		wet += mix.WetVolumeM3
	}
	return []model.Stat{
		{Label: "Area", Value: model.Round2(g.AreaM2), Unit: "m²"},
		{Label: "Board pitch", Value: boards.Pitch, Unit: "mm"},
		{Label: "Board rows", Value: float64(boards.Rows), Unit: "boards"},
		{Label: "Board run", Value: math.Round(boards.Length), Unit: "mm"},
		{Label: "Joists", Value: float64(joists.Count), Unit: "joists"},
		{Label: "Joist spacing", Value: model.Round2(joists.Spacing), Unit: "mm"},
		{Label: "Beams", Value: float64(beams.Count), Unit: "beams"},
		{Label: "Beam spacing", Value: model.Round2(beams.Spacing), Unit: "mm"},
		{Label: "Posts", Value: float64(nPosts), Unit: "posts"},
		{Label: "Post spacing", Value: model.Round2(posts.Spacing), Unit: "mm"},
		{Label: "Post section", Value: c.PostSection.Float(), Unit: "mm"},
		{Label: "Noggins", Value: float64(len(layout.Noggins)), Unit: "pieces"},
		{Label: "Post concrete", Value: math.Round(wet*1000) / 1000, Unit: "m³"},
	}
}
