// Package reporter renders audit and stats results to the terminal.
package reporter

import (
	"github.com/fatih/color"
)

var (
	header    = color.New(color.BgWhite, color.FgBlack)
	label     = color.New(color.FgWhite, color.Bold)
	value     = color.New(color.FgWhite)
	cyanBold  = color.New(color.FgCyan, color.Bold)
	cyan      = color.New(color.FgCyan)
	redBold   = color.New(color.FgRed, color.Bold)
	greenBold = color.New(color.FgGreen, color.Bold)
	magenta   = color.New(color.FgMagenta)
	magBold   = color.New(color.FgMagenta, color.Bold)
)

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
