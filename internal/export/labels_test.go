package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildDeckResult(t), "12 Acacia Avenue"); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("labels PDF seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_MultiplePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many_labels.pdf")

	rows := make([]model.BomRow, labelsPerPage+5)
	for i := range rows {
		rows[i] = model.BomRow{Item: "Deck board 150 x 28 x 4800 mm with a long name", Quantity: float64(i + 1), Unit: "boards"}
	}
	result := &model.BomResult{
		Calculator: model.CalculatorDeck,
		Sections:   []model.BomSection{{Title: "Decking", Rows: rows}},
	}

	if err := ExportLabels(path, result, ""); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
}

func TestExportLabels_NoRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.pdf")

	if err := ExportLabels(path, &model.BomResult{}, ""); err == nil {
		t.Error("expected error for a result without rows")
	}
	if err := ExportLabels(path, nil, ""); err == nil {
		t.Error("expected error for a nil result")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	result := buildDeckResult(t)
	labels := CollectLabelInfos(result, "job 42")

	if len(labels) != result.RowCount() {
		t.Fatalf("expected %d labels, got %d", result.RowCount(), len(labels))
	}

	first := labels[0]
	if first.Section != result.Sections[0].Title || first.Item != result.Sections[0].Rows[0].Item {
		t.Errorf("first label should be the first row, got %+v", first)
	}
	last := labels[len(labels)-1]
	if last.Section != result.Sections[len(result.Sections)-1].Title {
		t.Errorf("last label should be in the last section, got %q", last.Section)
	}

	for i, l := range labels {
		if l.Index != i+1 || l.Count != len(labels) {
			t.Errorf("label %d numbered %d of %d", i, l.Index, l.Count)
		}
		if l.Job != "job 42" || l.Calculator != model.CalculatorDeck {
			t.Errorf("label %d missing job or calculator: %+v", i, l)
		}
	}
}

func TestLabelInfo_QRPayload(t *testing.T) {
	info := LabelInfo{
		Job:        "Patio",
		Calculator: model.CalculatorPaving,
		Section:    "Sub-base",
		Item:       "MOT Type 1 sub-base",
		Quantity:   3,
		Unit:       "bulk bags",
		Index:      7,
		Count:      9,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["qty"] != 3.0 || decoded["unit"] != "bulk bags" || decoded["of"] != 9.0 {
		t.Errorf("unexpected payload %s", data)
	}
	if _, ok := decoded["note"]; ok {
		t.Error("empty note should be omitted")
	}
}
