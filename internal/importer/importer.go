// Package importer reads calculator configurations from files and forms.
// Key/value sheets (CSV or Excel) and form submissions are mapped onto
// configuration fields through case-insensitive aliases, with automatic
// delimiter detection for CSV.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/piwi3910/SiteTakeoff/internal/engine"
	"github.com/xuri/excelize/v2"
)

// Field is one key/value pair read from a sheet or form.
type Field struct {
	Key   string // canonical configuration field name
	Value string
	Row   string // "Line 3", "Row 2", empty for forms
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Fields   []Field
	Applied  []string // keys written by Apply
	Errors   []string
	Warnings []string
}

// ColumnMapping maps the key and value roles to their indices in the data.
type ColumnMapping struct {
	Key   int
	Value int
}

// headerAliases maps the column roles of a key/value sheet to their accepted
// header names (all lowercase).
var headerAliases = map[string][]string{
	"key":   {"key", "field", "name", "parameter", "param", "setting", "property"},
	"value": {"value", "val", "amount", "setting value", "mm", "dimension"},
}

// keyAliases maps configuration field names to the spellings accepted in
// sheets and forms. Keys are compared after lowercasing and replacing
// spaces and hyphens with underscores.
var keyAliases = map[string][]string{
	"shape":            {"kind", "shape_kind", "plan_shape"},
	"width":            {"w", "plan_width"},
	"length":           {"l", "len", "plan_length", "wall_length"},
	"height":           {"h", "deck_height", "wall_height"},
	"radius":           {"r"},
	"waste_pct":        {"waste", "waste_percent", "waste_%", "wastage"},
	"tier.skill":       {"skill", "skill_tier", "mode"},
	"tier.budget":      {"budget", "budget_tier"},
	"board_direction":  {"direction", "board_dir"},
	"joist_spacing":    {"joist_centres", "joist_centers", "spacing"},
	"beam_spacing":     {"beam_centres", "beam_centers"},
	"post_spacing":     {"post_centres", "post_centers"},
	"mortar_ratio":     {"mortar", "mortar_mix"},
	"foundation_mix":   {"concrete_mix", "footing_mix"},
	"foundation_depth": {"footing_depth"},
	"foundation_width": {"footing_width"},
	"sub_base_depth":   {"subbase_depth", "base_depth"},
	"sub_base_type":    {"subbase_type", "subbase", "sub_base"},
	"wall_type":        {"type", "block_type"},
	"joint_width":      {"joint", "joints"},
	"bed_depth":        {"bedding_depth"},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	idx := make(map[string]string)
	for canonical, aliases := range keyAliases {
		idx[canonical] = canonical
		for _, a := range aliases {
			idx[a] = canonical
		}
	}
	return idx
}

// CanonicalKey returns the configuration field name for a sheet or form key.
// Keys without an alias are returned normalized.
func CanonicalKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	if c, ok := aliasIndex[k]; ok {
		return c
	}
	return k
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}

	return best
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (key, value) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Key: -1, Value: -1}

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, alias := range headerAliases["key"] {
			if normalized == alias && mapping.Key == -1 {
				mapping.Key = i
			}
		}
		for _, alias := range headerAliases["value"] {
			if normalized == alias && mapping.Value == -1 {
				mapping.Value = i
			}
		}
	}

	if mapping.Key == -1 && mapping.Value == -1 {
		return ColumnMapping{Key: 0, Value: 1}, false
	}
	return mapping, true
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports key/value fields from a CSV file.
// It automatically detects the delimiter and the header row.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports key/value fields from a CSV reader with a
// known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	return reader.ReadAll()
}

// ImportExcel imports key/value fields from the first sheet of an Excel
// workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		if mapping.Key == -1 || mapping.Value == -1 {
			result.Errors = append(result.Errors, "Header must name both a key and a value column")
			return result
		}
	}

	seen := make(map[string]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)

		rawKey := getCell(row, mapping.Key)
		if rawKey == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Missing key", rowLabel))
			continue
		}
		key := CanonicalKey(rawKey)
		value := getCell(row, mapping.Value)
		if prev, ok := seen[key]; ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: '%s' repeats %s, later value wins", rowLabel, rawKey, prev))
		}
		seen[key] = rowLabel
		result.Fields = append(result.Fields, Field{Key: key, Value: value, Row: rowLabel})
	}

	return result
}

// ParseForm converts submitted form values into fields. Keys are visited
// in sorted order so repeated imports give identical results.
func ParseForm(values map[string]string) ImportResult {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := ImportResult{}
	for _, k := range keys {
		result.Fields = append(result.Fields, Field{Key: CanonicalKey(k), Value: values[k]})
	}
	return result
}

// Apply writes the imported fields into cfg, a pointer to a calculator
// configuration. Tier fields are written first so that fields they lock
// are skipped. Locked and unknown keys become warnings.
func (r *ImportResult) Apply(cfg any) {
	ordered := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if strings.HasPrefix(f.Key, "tier.") {
			ordered = append(ordered, f)
		}
	}
	for _, f := range r.Fields {
		if !strings.HasPrefix(f.Key, "tier.") {
			ordered = append(ordered, f)
		}
	}

	for _, f := range ordered {
		if engine.ApplyEdit(cfg, f.Key, f.Value) {
			r.Applied = append(r.Applied, f.Key)
			continue
		}
		where := f.Key
		if f.Row != "" {
			where = f.Row + ": " + f.Key
		}
		if isLocked(cfg, f.Key) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s is set by the tier, value '%s' ignored", where, f.Value))
		} else {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s is not a configuration field", where))
		}
	}
}

func isLocked(cfg any, key string) bool {
	for _, l := range engine.LockedFields(cfg) {
		if l == key {
			return true
		}
	}
	return false
}
