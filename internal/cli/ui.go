package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBrown  = lipgloss.Color("137") // Timber - structure
	colorOrange = lipgloss.Color("173") // Clay - groundwork
	colorBlue   = lipgloss.Color("75")  // Light blue - bedding
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// accentColors maps BOM section accents onto terminal colors.
var accentColors = map[string]lipgloss.Color{
	"Surface":    colorGreen,
	"Structure":  colorBrown,
	"Fixings":    colorGray,
	"Groundwork": colorOrange,
	"Bedding":    colorBlue,
}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleQty    = lipgloss.NewStyle().Padding(0, 1).Foreground(colorCyan).Align(lipgloss.Right)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconLock    = "locked"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(22)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Result Display
// =============================================================================

// formatNumber prints v with at most two decimals and no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(model.Round2(v), 'f', -1, 64)
}

// printResult prints the summary, stats and bill of materials of a result.
func printResult(w io.Writer, r *model.BomResult) {
	title := strings.ToUpper(string(r.Calculator[:1])) + string(r.Calculator[1:]) + " takeoff"
	fmt.Fprintln(w, StyleTitle.Render(title))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%s · %s · %s m² · %s m perimeter · %s%% waste",
		r.Tier.Tier, r.Shape, formatNumber(r.AreaM2), formatNumber(r.PerimeterM), formatNumber(r.WastePct))))
	fmt.Fprintln(w)

	for _, s := range r.Stats {
		printKeyValue(w, s.Label, strings.TrimSpace(formatNumber(s.Value)+" "+s.Unit))
	}
	if len(r.Locked) > 0 {
		printDetail(w, "%s by the %s tier: %s", iconLock, r.Tier.Tier, strings.Join(r.Locked, ", "))
	}
	for _, h := range r.Tier.Hints {
		printDetail(w, "%s", h)
	}

	for _, s := range r.Sections {
		fmt.Fprintln(w)
		accent, ok := accentColors[s.AccentLabel]
		if !ok {
			accent = colorWhite
		}
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Foreground(accent).Render(s.Title))
		fmt.Fprintln(w, sectionTable(s))
	}

	if len(r.Totals) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Material totals"))
		fmt.Fprintln(w, totalsTable(r.Totals))
	}
}

// sectionTable renders the rows of one BOM section.
func sectionTable(s model.BomSection) string {
	rows := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		rows = append(rows, []string{row.Item, formatNumber(row.Quantity), row.Unit, row.Note})
	}
	return newTable([]string{"Item", "Qty", "Unit", "Note"}, rows, 1)
}

// totalsTable renders the material totals.
func totalsTable(totals []model.BomTotal) string {
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{t.Item, formatNumber(t.Quantity), t.Unit, strconv.Itoa(t.Sections)})
	}
	return newTable([]string{"Material", "Qty", "Unit", "Sections"}, rows, 1)
}

// newTable renders rows under headers with a rounded border. The column
// at qtyCol is right-aligned.
func newTable(headers []string, rows [][]string, qtyCol int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == qtyCol:
				return styleQty
			default:
				return styleCell
			}
		}).
		String()
}
