package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SiteTakeoff/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// rgb represents an RGB color.
type rgb struct {
	R, G, B int
}

// accentColors maps section accent labels onto header colors.
var accentColors = map[string]rgb{
	"Surface":    {R: 76, G: 175, B: 80},  // green
	"Structure":  {R: 121, G: 85, B: 72},  // brown
	"Fixings":    {R: 96, G: 125, B: 139}, // grey blue
	"Groundwork": {R: 255, G: 152, B: 0},  // orange
	"Bedding":    {R: 33, G: 150, B: 243}, // blue
}

// fallbackColors are used for accents without an entry in accentColors.
var fallbackColors = []rgb{
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
}

// layerColors are the plan drawing colors per layer.
var layerColors = map[string]rgb{
	layerJoists:  {R: 121, G: 85, B: 72},
	layerBeams:   {R: 183, G: 28, B: 28},
	layerPosts:   {R: 30, G: 30, B: 30},
	layerCourses: {R: 120, G: 120, B: 120},
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rowHeight    = 6.0
	summaryQR    = 40.0
)

// ExportPDF writes a calculation result as a PDF document: a plan page
// showing the outline and member layout, followed by the bill of materials
// with grand totals and a QR code carrying the estimate summary.
func ExportPDF(path string, result *model.BomResult, title string) error {
	if result == nil {
		return errors.New("no result to export")
	}
	if title == "" {
		title = defaultTitle(result)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(title, true)

	pdf.AddPage()
	renderPlanPage(pdf, result, title)

	pdf.AddPage()
	if err := renderBomPages(pdf, result, title); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

func defaultTitle(r *model.BomResult) string {
	name := string(r.Calculator)
	if name == "" {
		return "Estimate"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " estimate"
}

// renderPlanPage draws the plan outline and the structural layout on the
// current page.
func renderPlanPage(pdf *fpdf.Fpdf, r *model.BomResult, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Shape: %s | Area: %.2f m\xb2 | Perimeter: %.2f m | Waste: %.0f%% | Tier: %s",
		r.Shape, r.AreaM2, r.PerimeterM, r.WastePct, r.Tier.Tier)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	g := r.Geometry
	if len(g.Outline) < 3 || g.Width <= 0 || g.Length <= 0 {
		return
	}

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	scale := math.Min(drawWidth/g.Width, drawHeight/g.Length)
	canvasW := g.Width * scale
	canvasH := g.Length * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Plan y grows away from the viewer, page y grows down the page.
	toPage := func(p model.Point2D) (float64, float64) {
		return offsetX + p.X*scale, offsetY + canvasH - p.Y*scale
	}

	points := make([]fpdf.PointType, len(g.Outline))
	for i, p := range g.Outline {
		x, y := toPage(p)
		points[i] = fpdf.PointType{X: x, Y: y}
	}
	pdf.SetFillColor(245, 240, 225)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.5)
	pdf.Polygon(points, "FD")

	pdf.SetLineWidth(0.25)
	for _, l := range planLines(r) {
		col := layerColors[l.Layer]
		pdf.SetDrawColor(col.R, col.G, col.B)
		x1, y1 := toPage(l.A)
		x2, y2 := toPage(l.B)
		pdf.Line(x1, y1, x2, y2)
	}

	col := layerColors[layerPosts]
	pdf.SetFillColor(col.R, col.G, col.B)
	for _, p := range planPosts(r) {
		x, y := toPage(p)
		pdf.Rect(x-0.8, y-0.8, 1.6, 1.6, "F")
	}

	drawDimensionAnnotations(pdf, g, offsetX, offsetY, canvasW, canvasH)
	drawStatsLegend(pdf, r.Stats, offsetY+canvasH+7)
}

// drawDimensionAnnotations adds width and length labels outside the plan.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, g model.Geometry, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", g.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%.0f mm", g.Length)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-lLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawStatsLegend renders the summary scalars in one wrapping line.
func drawStatsLegend(pdf *fpdf.Fpdf, stats []model.Stat, startY float64) {
	if len(stats) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Layout:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	maxX := pageWidth - marginRight
	for _, s := range stats {
		label := fmt.Sprintf("%s %s %s", s.Label, formatQuantity(s.Value), s.Unit)
		labelW := pdf.GetStringWidth(label) + 4
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		pdf.SetXY(xPos, startY)
		pdf.CellFormat(labelW, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

// renderBomPages writes the sections, the grand totals and the summary QR
// code, adding pages as the tables fill them.
func renderBomPages(pdf *fpdf.Fpdf, r *model.BomResult, title string) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight-summaryQR, 10, title+" - Bill of Materials", "", 0, "L", false, 0, "")

	qrPNG, err := summaryQRCode(r)
	if err != nil {
		return err
	}
	pdf.RegisterImageOptionsReader("summary_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("summary_qr", pageWidth-marginRight-summaryQR, marginTop, summaryQR, summaryQR,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight-summaryQR-5, marginTop+12)

	y := marginTop + 18
	if len(r.Locked) > 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(120, 80, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 5, "Set by the "+r.Tier.Tier.String()+" tier: "+strings.Join(r.Locked, ", "), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		y += 7
	}
	y = math.Max(y, marginTop+summaryQR+4)

	colWidths := []float64{80, 30, 30, 127}
	headers := []string{"Item", "Quantity", "Unit", "Note"}

	for i, sec := range r.Sections {
		y = ensureSpace(pdf, y, 2*rowHeight+8)
		col := accentColor(sec.AccentLabel, i)

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(marginLeft, y+1, 3, 5, "F")
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(100, 7, sec.Title, "", 0, "L", false, 0, "")
		if sec.AccentLabel != "" {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(60, 7, sec.AccentLabel, "", 0, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		y += 8

		y = drawTableHeader(pdf, y, colWidths, headers)
		pdf.SetFont("Helvetica", "", 9)
		for j, row := range sec.Rows {
			if y+rowHeight > pageHeight-marginBottom {
				pdf.AddPage()
				y = drawTableHeader(pdf, marginTop, colWidths, headers)
				pdf.SetFont("Helvetica", "", 9)
			}
			drawTableRow(pdf, y, colWidths, j, []string{
				row.Item, formatQuantity(row.Quantity), row.Unit, row.Note,
			})
			y += rowHeight
		}
		y += 6
	}

	if len(r.Totals) > 0 {
		y = ensureSpace(pdf, y, 2*rowHeight+8)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Material Totals", "", 0, "L", false, 0, "")
		y += 8

		totalWidths := []float64{80, 30, 30, 30}
		totalHeaders := []string{"Material", "Quantity", "Unit", "Sections"}
		y = drawTableHeader(pdf, y, totalWidths, totalHeaders)
		pdf.SetFont("Helvetica", "", 9)
		for j, t := range r.Totals {
			if y+rowHeight > pageHeight-marginBottom {
				pdf.AddPage()
				y = drawTableHeader(pdf, marginTop, totalWidths, totalHeaders)
				pdf.SetFont("Helvetica", "", 9)
			}
			drawTableRow(pdf, y, totalWidths, j, []string{
				t.Item, formatQuantity(t.Quantity), t.Unit, fmt.Sprintf("%d", t.Sections),
			})
			y += rowHeight
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SiteTakeoff - construction quantity takeoff", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// ensureSpace starts a new page when fewer than need mm are left below y.
func ensureSpace(pdf *fpdf.Fpdf, y, need float64) float64 {
	if y+need > pageHeight-marginBottom {
		pdf.AddPage()
		return marginTop
	}
	return y
}

func drawTableHeader(pdf *fpdf.Fpdf, y float64, widths []float64, headers []string) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(widths[i], rowHeight, header, "1", 0, "C", true, 0, "")
		xPos += widths[i]
	}
	return y + rowHeight
}

func drawTableRow(pdf *fpdf.Fpdf, y float64, widths []float64, index int, cells []string) {
	// Alternate row background
	if index%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	xPos := marginLeft
	for i, cell := range cells {
		align := "L"
		if i == 1 {
			align = "R"
		}
		pdf.SetXY(xPos, y)
		pdf.CellFormat(widths[i], rowHeight, fitText(pdf, cell, widths[i]-2), "1", 0, align, true, 0, "")
		xPos += widths[i]
	}
}

// fitText truncates s with an ellipsis so it fits in width mm.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func accentColor(accent string, index int) rgb {
	if c, ok := accentColors[accent]; ok {
		return c
	}
	return fallbackColors[index%len(fallbackColors)]
}

// formatQuantity prints whole quantities without decimals and others with
// up to two.
func formatQuantity(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// EstimateSummary is the data encoded into the QR code of a BOM document.
type EstimateSummary struct {
	Calculator model.Calculator `json:"calc"`
	Shape      model.ShapeKind  `json:"shape"`
	AreaM2     float64          `json:"area_m2"`
	Tier       string           `json:"tier"`
	Totals     []SummaryLine    `json:"totals"`
}

// SummaryLine is one grand total in an EstimateSummary.
type SummaryLine struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"qty"`
	Unit     string  `json:"unit"`
}

// Summarize extracts the estimate summary carried by the PDF QR code.
func Summarize(r *model.BomResult) EstimateSummary {
	s := EstimateSummary{
		Calculator: r.Calculator,
		Shape:      r.Shape,
		AreaM2:     r.AreaM2,
		Tier:       r.Tier.Tier.String(),
		Totals:     make([]SummaryLine, len(r.Totals)),
	}
	for i, t := range r.Totals {
		s.Totals[i] = SummaryLine{Item: t.Item, Quantity: t.Quantity, Unit: t.Unit}
	}
	return s
}

func summaryQRCode(r *model.BomResult) ([]byte, error) {
	data, err := json.Marshal(Summarize(r))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal estimate summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Low, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
