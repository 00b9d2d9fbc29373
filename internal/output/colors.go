package output

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the summary
type ColorScheme struct {
	Title *color.Color
	Label *color.Color
	Value *color.Color
	Good  *color.Color
	Warn  *color.Color
	Bad   *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Title: color.New(color.FgCyan, color.Bold),
		Label: color.New(color.FgYellow),
		Value: color.New(color.FgWhite),
		Good:  color.New(color.FgGreen, color.Bold),
		Warn:  color.New(color.FgYellow, color.Bold),
		Bad:   color.New(color.FgRed, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	// Disable all colors
	scheme.Title.DisableColor()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Good.DisableColor()
	scheme.Warn.DisableColor()
	scheme.Bad.DisableColor()

	return scheme
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return checkIsTerminal(f)
	}
	return false
}
