package engine

import (
	"fmt"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// BulkBagThreshold is the raw volume (m³) from which a material sold in
// bulk bags is ordered that way instead of in small bags.
const BulkBagThreshold = 0.5

// BOM accumulates bill of materials rows into sections. Sections keep the
// order they were first opened in; rows keep the order they were added.
type BOM struct {
	catalog  *model.Catalog
	wastePct float64
	sections []model.BomSection
}

// NewBOM returns an empty bill of materials applying wastePct to every
// wasted quantity.
func NewBOM(catalog *model.Catalog, wastePct float64) *BOM {
	if wastePct < 0 {
		wastePct = 0
	}
	return &BOM{catalog: catalog, wastePct: wastePct}
}

// Section returns a writer for the section with the given title, opening it
// if needed.
func (b *BOM) Section(title, accent string) *SectionWriter {
	for i := range b.sections {
		if b.sections[i].Title == title {
			return &SectionWriter{bom: b, index: i}
		}
	}
	b.sections = append(b.sections, model.BomSection{Title: title, AccentLabel: accent})
	return &SectionWriter{bom: b, index: len(b.sections) - 1}
}

// SectionWriter adds rows to one section of a BOM.
type SectionWriter struct {
	bom   *BOM
	index int
}

func (s *SectionWriter) add(row model.BomRow) {
	if row.Quantity <= 0 {
		return
	}
	sec := &s.bom.sections[s.index]
	sec.Rows = append(sec.Rows, row)
}

// Count adds a discrete item with the waste allowance, rounded up to whole units.
func (s *SectionWriter) Count(item string, raw float64, unit, note string) {
	s.add(model.BomRow{Item: item, Quantity: model.PurchaseQuantity(raw, s.bom.wastePct, 1), Unit: unit, Note: note})
}

// Exact adds a discrete item taken straight from a layout or fixed ratio,
// rounded up to whole units without a waste allowance.
func (s *SectionWriter) Exact(item string, raw float64, unit, note string) {
	s.add(model.BomRow{Item: item, Quantity: model.CeilUnits(raw), Unit: unit, Note: note})
}

// Packs adds an item sold in packs of packSize, with the waste allowance.
func (s *SectionWriter) Packs(item string, raw, packSize float64, unit, note string) {
	if raw <= 0 {
		return
	}
	if note == "" {
		note = fmt.Sprintf("%.0f needed, packs of %.0f", raw, packSize)
	}
	s.add(model.BomRow{Item: item, Quantity: model.PurchaseQuantity(raw, s.bom.wastePct, packSize), Unit: unit, Note: note})
}

// Measure adds a length or area (m, m²) with the waste allowance, rounded
// up to whole units.
func (s *SectionWriter) Measure(item string, raw float64, unit, note string) {
	s.add(model.BomRow{Item: item, Quantity: model.PurchaseQuantity(raw, s.bom.wastePct, 1), Unit: unit, Note: note})
}

// Bags adds a loose material by dry volume (m³). The volume is converted to
// mass with the catalog density and rounded up to 25 kg style bags, or to
// bulk bags when the raw volume reaches BulkBagThreshold. The package type
// is chosen before the waste allowance is applied.
func (s *SectionWriter) Bags(material string, volumeM3 float64, note string) {
	if volumeM3 <= 0 {
		return
	}
	m := s.bom.catalog.FindMaterial(material)
	wasted := volumeM3 * model.WasteFactor(s.bom.wastePct)
	row := model.BomRow{Item: material, Material: material}
	if m == nil {
		row.Quantity = model.CeilUnits(wasted*100) / 100
		row.Unit = "m³"
		row.Note = note
		s.add(row)
		return
	}
	row.Item = m.Name
	mass := wasted * m.Density

	switch {
	case m.BulkBagM3 > 0 && (volumeM3 >= BulkBagThreshold || m.BagKg <= 0):
		row.Quantity = model.CeilUnits(wasted / m.BulkBagM3)
		row.Unit = "bulk bags"
		row.Note = fmt.Sprintf("%.3f m³, %.2f m³ bags", wasted, m.BulkBagM3)
	case m.BagKg > 0:
		row.Quantity = model.BagsForVolume(wasted, m.Density, m.BagKg)
		row.Unit = fmt.Sprintf("%.0f kg bags", m.BagKg)
		row.Note = fmt.Sprintf("%.3f m³, %.0f kg", wasted, mass)
	default:
		row.Quantity = model.CeilUnits(wasted*100) / 100
		row.Unit = "m³"
		row.Note = fmt.Sprintf("%.0f kg", mass)
	}
	if note != "" {
		row.Note = note + ", " + row.Note
	}
	s.add(row)
}

// MixBags adds one Bags row per constituent of a resolved mix.
func (s *SectionWriter) MixBags(mix model.MixResult) {
	for _, p := range mix.Parts {
		s.Bags(p.Material, p.VolumeM3, mix.Label+" "+mix.Ratio.String())
	}
}

// Result returns the non-empty sections and the grand totals per shared
// material. Totals sum rows with the same material and unit across
// sections, in the order each pair is first seen.
func (b *BOM) Result() ([]model.BomSection, []model.BomTotal) {
	sections := make([]model.BomSection, 0, len(b.sections))
	for _, sec := range b.sections {
		if len(sec.Rows) == 0 {
			continue
		}
		rows := make([]model.BomRow, len(sec.Rows))
		copy(rows, sec.Rows)
		sec.Rows = rows
		sections = append(sections, sec)
	}

	totals := []model.BomTotal{}
	seen := make(map[[2]string]int)
	lastSection := make(map[[2]string]string)
	for _, sec := range sections {
		for _, row := range sec.Rows {
			if row.Material == "" {
				continue
			}
			key := [2]string{row.Material, row.Unit}
			i, ok := seen[key]
			if !ok {
				i = len(totals)
				seen[key] = i
				totals = append(totals, model.BomTotal{Material: row.Material, Item: row.Item, Unit: row.Unit})
			}
			totals[i].Quantity += row.Quantity
			if lastSection[key] != sec.Title {
				totals[i].Sections++
				lastSection[key] = sec.Title
			}
		}
	}
	return sections, totals
}
