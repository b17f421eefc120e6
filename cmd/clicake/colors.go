package main

import (
	"io"
	"os"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// ShouldUseColor determines if color output should be used for w.
// Respects --no-color flag and NO_COLOR in environ.
func ShouldUseColor(noColorFlag bool, environ []string, w io.Writer) bool {
	if colorDisabled(noColorFlag, environ) {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	// Only color terminals
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// colorDisabled reports whether the flag or a non-empty NO_COLOR turns color off.
func colorDisabled(noColorFlag bool, environ []string) bool {
	return noColorFlag || lookupEnv(environ, "NO_COLOR") != ""
}
