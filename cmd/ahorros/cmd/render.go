package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorText    = lipgloss.Color("#FFFCF0")
	colorMuted   = lipgloss.Color("#6F6E69")
	colorDim     = lipgloss.Color("#575653")
	colorAccent  = lipgloss.Color("#3AA99F")
	colorGreen   = lipgloss.Color("#879A39")
	colorOrange  = lipgloss.Color("#DA702C")
	colorRed     = lipgloss.Color("#D14D41")
	colorBorder  = lipgloss.Color("#282726")
	colorHeading = lipgloss.Color("#4385BE")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeading)
)

// renderTable renders rows under headers with a rounded border. The first
// column is left aligned, the rest right aligned.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle
			}
			return cellStyle.Align(lipgloss.Right)
		})
	return t.Render()
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printSection(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(title))
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label)+valueStyle.Render(value))
}

func printDone(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

func printEmpty(w io.Writer, msg string) {
	fmt.Fprintln(w, mutedStyle.Render(msg))
}
