package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SiteTakeoff/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each delivery label's QR code.
type LabelInfo struct {
	Job        string           `json:"job"`
	Calculator model.Calculator `json:"calc"`
	Section    string           `json:"section"`
	Item       string           `json:"item"`
	Quantity   float64          `json:"qty"`
	Unit       string           `json:"unit"`
	Note       string           `json:"note,omitempty"`
	Index      int              `json:"n"`
	Count      int              `json:"of"`
}

// Label layout constants for Avery L7160-compatible labels (3 columns, 7
// rows per page). Each label is 63.5 x 38.1 mm on A4 paper.
const (
	labelMarginTop  = 15.1 // mm
	labelMarginLeft = 7.2  // mm
	labelGapX       = 2.5  // mm between columns
	labelWidth      = 63.5 // mm per label
	labelHeight     = 38.1 // mm per label
	labelCols       = 3
	labelRows       = 7
	labelsPerPage   = labelCols * labelRows
	qrSize          = 24.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per bill of
// materials row, for tagging deliveries and stacks on site. Each label
// shows the item, quantity and section and carries the row as JSON in its
// QR code. Labels are laid out on an A4 label sheet (3 columns x 7 rows).
func ExportLabels(path string, result *model.BomResult, job string) error {
	if result == nil {
		return errors.New("no result to generate labels for")
	}

	labels := CollectLabelInfos(result, job)
	if len(labels) == 0 {
		return errors.New("bill of materials has no rows to label")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*(labelWidth+labelGapX)
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Item, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", info.Index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fitText(pdf, info.Item, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 6, formatQuantity(info.Quantity)+" "+info.Unit, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+14)
	pdf.CellFormat(textW, 3.5, fitText(pdf, info.Section, textW), "", 1, "L", false, 0, "")

	if info.Job != "" {
		pdf.SetXY(textX, y+labelPadding+18)
		pdf.CellFormat(textW, 3.5, fitText(pdf, info.Job, textW), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 6)
	pdf.SetXY(textX, y+labelHeight-labelPadding-3)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%d of %d", info.Index, info.Count), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos lists the labels for every row of a result in section
// order, numbered from 1.
func CollectLabelInfos(result *model.BomResult, job string) []LabelInfo {
	var labels []LabelInfo
	for _, sec := range result.Sections {
		for _, row := range sec.Rows {
			labels = append(labels, LabelInfo{
				Job:        job,
				Calculator: result.Calculator,
				Section:    sec.Title,
				Item:       row.Item,
				Quantity:   row.Quantity,
				Unit:       row.Unit,
				Note:       row.Note,
				Index:      len(labels) + 1,
			})
		}
	}
	for i := range labels {
		labels[i].Count = len(labels)
	}
	return labels
}
