package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorBright = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorBright)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleHeader = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleKey    = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// Status markers prefixed to term lines.
var (
	markOK   = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markFail = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markWarn = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	markInfo = lipgloss.NewStyle().Foreground(colorMuted).Render("›")
	markFile = StyleDim.Render("→")
)

// term writes styled, human-oriented status lines. Machine-readable output
// (artifacts, device text) goes to the writer directly.
type term struct {
	w io.Writer
}

func newTerm(w io.Writer) term { return term{w: w} }

func (t term) line(mark, format string, args ...any) {
	fmt.Fprintln(t.w, mark+" "+fmt.Sprintf(format, args...))
}

func (t term) success(format string, args ...any) { t.line(markOK, format, args...) }
func (t term) failure(format string, args ...any) { t.line(markFail, format, args...) }
func (t term) info(format string, args ...any)    { t.line(markInfo, format, args...) }

func (t term) warn(format string, args ...any) {
	t.line(markWarn, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// detail prints an indented, dimmed line.
func (t term) detail(format string, args ...any) {
	fmt.Fprintln(t.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (t term) file(path string) {
	fmt.Fprintln(t.w, "  "+markFile+" "+StyleValue.Render(path))
}

func (t term) title(s string) {
	fmt.Fprintln(t.w, StyleTitle.Render(s))
}

func (t term) keyValue(key, value string) {
	fmt.Fprintln(t.w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// routeSummary prints "N swaps · depth D · cached|fresh" on one line.
func (t term) routeSummary(swaps, depth int, cached bool) {
	origin := lipgloss.NewStyle().Foreground(colorMuted).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(t.w, "  "+
		StyleDim.Render(fmt.Sprintf("%d swaps", swaps))+sep+
		StyleDim.Render(fmt.Sprintf("depth %d", depth))+sep+origin)
}

// reportRows splits a statistics report (one "value::name::description"
// line per statistic) into table rows.
func reportRows(report string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(report, "\n") {
		fields := strings.SplitN(line, "::", 3)
		if len(fields) != 3 {
			continue
		}
		rows = append(rows, []string{fields[1], fields[0], fields[2]})
	}
	return rows
}

// statsTable renders rows as a bordered name/value/description table.
func (t term) statsTable(rows [][]string) {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Statistic", "Value", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 1:
				return StyleNumber.Align(lipgloss.Right)
			case col == 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(t.w, tbl.Render())
}
