// Package colors is the palette used for console output.
package colors

import "github.com/fatih/color"

var (
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
	descColor    = color.New(color.FgHiCyan)
	textColor    = color.New(color.FgWhite)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	headerColor  = color.New(color.Bold)
)

// Printf helpers writing to stdout.
var (
	InfoOutput    = infoColor.PrintfFunc()
	DescOutput    = descColor.PrintfFunc()
	TextOutput    = textColor.PrintfFunc()
	SuccessOutput = successColor.PrintfFunc()
)

// Fprintf helpers for an explicit writer.
var (
	Error   = errorColor.FprintfFunc()
	Info    = infoColor.FprintfFunc()
	Desc    = descColor.FprintfFunc()
	Text    = textColor.FprintfFunc()
	Success = successColor.FprintfFunc()
	Warning = warningColor.FprintfFunc()
	Added   = addedColor.FprintfFunc()
	Removed = removedColor.FprintfFunc()
	Header  = headerColor.FprintfFunc()
)

// Disable turns colored output off for the whole process.
func Disable() {
	color.NoColor = true
}
