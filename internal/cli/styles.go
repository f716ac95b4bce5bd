// Package cli holds terminal styling shared by the command-line tools.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#1F6FB2")
	errorColor   = lipgloss.Color("#A40000")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	RuleStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// PrintError prints an error message to stderr.
func PrintError(message string) {
	FprintError(os.Stderr, message)
}

// FprintError prints an error message to w.
func FprintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// FprintTitle prints a section title.
func FprintTitle(w io.Writer, title string) {
	fmt.Fprintln(w, TitleStyle.Render(title))
}

// FprintKV prints one "key<TAB>value" line.
func FprintKV(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s\t%s\n", KeyStyle.Render(key), ValueStyle.Render(value))
}

// FprintRule prints the separator line between report sections.
func FprintRule(w io.Writer) {
	fmt.Fprintln(w, RuleStyle.Render("--------------------------"))
	fmt.Fprintln(w)
}
