package export

import (
	"errors"
	"fmt"

	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// postMarkRadius is the radius (mm) of the circle marking a post centre
// when the result does not carry a post section.
const postMarkRadius = 50.0

// dxfLayers lists the drawing layers in the order they are created.
var dxfLayers = []struct {
	name  string
	color color.ColorNumber
}{
	{layerOutline, color.White},
	{layerJoists, color.Yellow},
	{layerBeams, color.Red},
	{layerPosts, color.Cyan},
	{layerCourses, color.Green},
}

// ExportDXF writes the plan of a calculation result as a DXF drawing in
// millimetres: the outline as a closed polyline, members and course lines
// on their own layers, and deck posts as circles sized to the post section.
func ExportDXF(path string, result *model.BomResult) error {
	if result == nil {
		return errors.New("no result to export")
	}
	outline := result.Geometry.Outline
	if len(outline) < 3 {
		return errors.New("result has no plan outline")
	}

	d := dxf.NewDrawing()
	for _, l := range dxfLayers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(layerOutline); err != nil {
		return err
	}
	vertices := make([][]float64, len(outline))
	for i, p := range outline {
		vertices[i] = []float64{p.X, p.Y}
	}
	if _, err := d.LwPolyline(true, vertices...); err != nil {
		return fmt.Errorf("failed to draw outline: %w", err)
	}

	for _, l := range planLines(result) {
		if err := d.ChangeLayer(l.Layer); err != nil {
			return err
		}
		if _, err := d.Line(l.A.X, l.A.Y, 0, l.B.X, l.B.Y, 0); err != nil {
			return fmt.Errorf("failed to draw %s member: %w", l.Layer, err)
		}
	}

	if posts := planPosts(result); len(posts) > 0 {
		if err := d.ChangeLayer(layerPosts); err != nil {
			return err
		}
		r := postMarkRadius
		if result.Tier.PostSection > 0 {
			r = result.Tier.PostSection / 2
		}
		for _, p := range posts {
			if _, err := d.Circle(p.X, p.Y, 0, r); err != nil {
				return fmt.Errorf("failed to draw post: %w", err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save drawing: %w", err)
	}
	return nil
}
