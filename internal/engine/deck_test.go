package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deckConfig(width, length float64) model.DeckConfig {
	cfg := model.DefaultDeckConfig()
	cfg.Width = model.Number(width)
	cfg.Length = model.Number(length)
	cfg.BoardWidth = 150
	cfg.BoardGap = 5
	cfg.Tier = model.TierSpec{Skill: model.SkillPro, Budget: model.BudgetFull}
	cfg.JoistDepth = 0
	cfg.JoistSpacing = 0
	cfg.BeamDepth = 0
	cfg.BeamSpacing = 0
	cfg.PostSpacing = 0
	cfg.SetWaste(10)
	return cfg
}

func TestDeck_RectangleScenario(t *testing.T) {
	res := CalculateDeck(deckConfig(4800, 3600))
	require.NotNil(t, res)

	assert.Equal(t, model.CalculatorDeck, res.Calculator)
	assert.Equal(t, 17.28, res.AreaM2)
	assert.Equal(t, 16.8, res.PerimeterM)

	boards := res.Layout.Boards
	require.NotNil(t, boards)
	assert.Equal(t, 155.0, boards.Pitch)
	assert.Equal(t, 31, boards.Rows)
	assert.Equal(t, 3600.0, boards.Length)

	deckBoard := res.Section("Decking").Row("Deck board")
	require.NotNil(t, deckBoard)
	assert.Equal(t, 35.0, deckBoard.Quantity, "31 rows plus 10% waste")

	joists := res.Layout.Joists
	assert.Equal(t, 10, joists.Count)
	assert.Equal(t, 400.0, joists.Spacing)
	assert.Equal(t, 4800.0, joists.Member)

	beams := res.Layout.Beams
	assert.Equal(t, 4, beams.Count)
	assert.Equal(t, 1600.0, beams.Spacing)
	assert.Equal(t, 3600.0, beams.Member)

	assert.Equal(t, 3, res.Layout.Posts.Count, "posts per beam")
	assert.Equal(t, 600.0, res.Layout.Posts.Member, "low deck posts are all hole")
	posts, ok := res.Stat("Posts")
	require.True(t, ok)
	assert.Equal(t, 12.0, posts.Value)

	framing := res.Section("Framing")
	require.NotNil(t, framing)
	assert.Equal(t, 10.0, framing.Row("Joist").Quantity, "layout members carry no waste")
	assert.Equal(t, 4.0, framing.Row("Beam").Quantity)
	assert.Equal(t, 12.0, framing.Row("Post").Quantity)
	assert.Equal(t, 31.0, framing.Row("Noggin").Quantity)

	hardware := res.Section("Hardware")
	require.NotNil(t, hardware)
	assert.Equal(t, 20.0, hardware.Row("Joist hanger").Quantity)
	assert.Equal(t, 24.0, hardware.Row("Coach bolt").Quantity)
	assert.Equal(t, 4.0, hardware.Row("Deck screws").Quantity, "620 screws plus waste in boxes of 200")

	require.Len(t, res.Mixes, 1)
	assert.InDelta(t, 0.576, res.Mixes[0].WetVolumeM3, 1e-9)
	assert.Equal(t, "1:2:4", res.Mixes[0].Ratio.String())

	var titles []string
	for _, s := range res.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Decking", "Framing", "Hardware", "Foundation"}, titles)
}

func TestDeck_MissingDimensionIsAwaitingInput(t *testing.T) {
	cfg := deckConfig(4800, 0)
	assert.Nil(t, CalculateDeck(cfg))

	cfg = deckConfig(0, 0)
	cfg.Kind = model.ShapeCircle
	assert.Nil(t, CalculateDeck(cfg))
}

func TestCalculate_HugeDimensionsReturnPromptly(t *testing.T) {
	returnsWithin(t, 5*time.Second, func() {
		deck := deckConfig(4800, 3600)
		deck.Width = model.ParseNumber("1e300")
		assert.Nil(t, CalculateDeck(deck))

		deck = deckConfig(4800, 3600)
		deck.Tier = model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetFull}
		deck.Length = model.Number(MaxDimension + 1)
		assert.Nil(t, CalculateDeck(deck))

		wall := model.DefaultWallConfig()
		wall.Length = model.ParseNumber("1e300")
		wall.Height = 600
		assert.Nil(t, CalculateWall(wall))

		paving := model.DefaultPavingConfig()
		paving.Kind = model.ShapeCircle
		paving.Radius = model.ParseNumber("1e13")
		assert.Nil(t, CalculatePaving(paving))
	})
}

// Tiny spacings on a valid plan are widened rather than laid out member by
// member.
func TestDeck_TinySpacingsStayBounded(t *testing.T) {
	returnsWithin(t, 5*time.Second, func() {
		cfg := deckConfig(MaxDimension, 3600)
		cfg.JoistSpacing = 1e-9
		cfg.NogginSpacing = 1e-9
		res := CalculateDeck(cfg)
		require.NotNil(t, res)
		assert.LessOrEqual(t, res.Layout.Joists.Count, 3*maxBays+1)
		assert.LessOrEqual(t, len(res.Layout.Noggins), maxNoggins+res.Layout.Joists.Count)
	})
}

func TestDeck_AcceptsFormStrings(t *testing.T) {
	var cfg model.DeckConfig
	err := json.Unmarshal([]byte(`{
		"shape": "rectangle", "width": "4800", "length": "3600",
		"board_width": "150", "board_gap": "5", "board_thickness": "28",
		"height": "300", "waste_pct": "10",
		"tier": {"skill": "Pro", "budget": "Full"}
	}`), &cfg)
	require.NoError(t, err)

	res := CalculateDeck(cfg)
	require.NotNil(t, res)
	assert.Equal(t, 35.0, res.Section("Decking").Row("Deck board").Quantity)
	assert.Equal(t, 10, res.Layout.Joists.Count)
}

func TestDeck_DIYLocksAndOverridesStructure(t *testing.T) {
	cfg := deckConfig(4800, 3600)
	cfg.Tier = model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetLow}
	cfg.JoistSpacing = 300
	cfg.JoistDepth = 225
	cfg.BeamSpacing = 900

	res := CalculateDeck(cfg)
	require.NotNil(t, res)

	assert.Equal(t, []string{"joist_depth", "beam_depth", "joist_spacing", "beam_spacing", "post_spacing", "post_section"}, res.Locked)
	assert.Equal(t, 7, res.Layout.Joists.Count, "DIY Budget joists at 600 centres")
	assert.Equal(t, 600.0, res.Layout.Joists.Spacing)
	assert.Equal(t, 4, res.Layout.Beams.Count, "beam spacing is derived from the span")
	assert.Contains(t, res.Section("Framing").Row("Joist").Note, "47 x 100 mm")
	assert.NotEmpty(t, res.Tier.Hints)
}

func TestDeck_ProKeepsUserStructure(t *testing.T) {
	cfg := deckConfig(4800, 3600)
	cfg.BeamSpacing = 1200
	cfg.JoistSpacing = 300

	res := CalculateDeck(cfg)
	require.NotNil(t, res)
	assert.Empty(t, res.Locked)
	assert.Equal(t, 5, res.Layout.Beams.Count)
	assert.Equal(t, 13, res.Layout.Joists.Count)
}

func TestDeck_TallDeckGetsHeavyPosts(t *testing.T) {
	cfg := deckConfig(4800, 3600)
	cfg.Tier = model.TierSpec{Skill: model.SkillDIY, Budget: model.BudgetFull}
	cfg.Height = 1200

	res := CalculateDeck(cfg)
	require.NotNil(t, res)
	section, _ := res.Stat("Post section")
	assert.Equal(t, 100.0, section.Value)
	// 1200 - 28 - 150 - 150 above ground, 600 in the hole
	assert.Equal(t, 1472.0, res.Layout.Posts.Member)

	cfg.Height = 400
	res = CalculateDeck(cfg)
	section, _ = res.Stat("Post section")
	assert.Equal(t, 75.0, section.Value)
}

func TestDeck_DiagonalBoards(t *testing.T) {
	cfg := deckConfig(4800, 3600)
	cfg.Direction = model.BoardsDiagonal

	res := CalculateDeck(cfg)
	require.NotNil(t, res)
	assert.InDelta(t, 6000.0, res.Layout.Boards.Length, 1e-9)
	assert.Equal(t, 22, res.Layout.Boards.Rows)
	assert.True(t, res.Layout.Horizontal)
}

func TestDeck_VerticalBoardsSwapAxes(t *testing.T) {
	cfg := deckConfig(4800, 3600)
	cfg.Direction = model.BoardsVertical

	res := CalculateDeck(cfg)
	require.NotNil(t, res)
	assert.False(t, res.Layout.Horizontal)
	assert.Equal(t, 4800.0, res.Layout.Boards.Length)
	assert.Equal(t, 3600.0, res.Layout.Joists.Member)
	assert.Equal(t, 4800.0, res.Layout.Joists.Length)
}

func TestDeck_BorderBoard(t *testing.T) {
	plain := CalculateDeck(deckConfig(4800, 3600))
	cfg := deckConfig(4800, 3600)
	cfg.BorderBoard = true
	framed := CalculateDeck(cfg)
	require.NotNil(t, framed)

	assert.Less(t, framed.Layout.Boards.Rows, plain.Layout.Boards.Rows)
	border := framed.Section("Decking").Row("Border board")
	require.NotNil(t, border)
	// 16.8 m of frame in 3.6 m lengths is 4.67, plus waste
	assert.Equal(t, 6.0, border.Quantity)
	assert.Contains(t, framed.Layout.Joists.Positions, 150.0, "first inner joist sits under the frame board")
	assert.Nil(t, plain.Section("Decking").Row("Border board"))
}

func TestDeck_StockBoardLength(t *testing.T) {
	cfg := deckConfig(4800, 3600)
	cfg.BoardLength = 2400

	res := CalculateDeck(cfg)
	require.NotNil(t, res)
	// each 3600 row needs two 2400 boards
	assert.Equal(t, 69.0, res.Section("Decking").Row("Deck board").Quantity)
}

func TestDeck_TShapeRunsOverExtension(t *testing.T) {
	cfg := deckConfig(4000, 3000)
	cfg.Kind = model.ShapeT
	cfg.ExtensionWidth = 1500
	cfg.ExtensionLength = 1200

	res := CalculateDeck(cfg)
	require.NotNil(t, res)
	assert.Equal(t, 4200.0, res.Layout.Joists.Length)
	assert.Equal(t, 4200.0, res.Layout.Joists.Positions[len(res.Layout.Joists.Positions)-1])
	assert.Equal(t, 13.8, res.AreaM2)
}

func TestDeck_DoesNotMutateInput(t *testing.T) {
	cfg := deckConfig(4800, 3600)
	cfg.Tier.Skill = model.SkillDIY
	before := cfg

	_ = CalculateDeck(cfg)
	assert.Equal(t, before, cfg)
	assert.Zero(t, cfg.JoistSpacing)
}

func TestDeck_Deterministic(t *testing.T) {
	cfg := deckConfig(5123, 3377)
	cfg.Kind = model.ShapeL
	cfg.CutoutWidth = 1500
	cfg.CutoutLength = 1000

	first := CalculateDeck(cfg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, CalculateDeck(cfg))
	}
}

func TestDeck_CustomCatalogEngine(t *testing.T) {
	catalog := model.Catalog{Materials: []model.Material{
		{Key: model.MaterialCement, Name: "Rapid set cement", Density: 1440, BagKg: 20},
	}}
	e := New(catalog)

	res := e.Deck(deckConfig(4800, 3600))
	require.NotNil(t, res)
	cement := res.Section("Foundation").Row("Rapid set cement")
	require.NotNil(t, cement)
	assert.Equal(t, "20 kg bags", cement.Unit)
	merged := e.Catalog()
	assert.NotNil(t, merged.FindMaterial(model.MaterialGravel), "missing materials come from the defaults")
	assert.Len(t, catalog.Materials, 1, "the caller's catalog is copied")
}
