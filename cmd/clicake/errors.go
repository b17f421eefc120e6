package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/clicake/runtime/binder"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "config", "target", "usage"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var bindErr *binder.BindError
	var cliErr *CLIError
	switch {
	case errors.As(err, &bindErr):
		formatBindError(w, bindErr, useColor)
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatBindError formats binding errors with suggestions
func formatBindError(w io.Writer, err *binder.BindError, useColor bool) {
	msg := err.Message
	if err.Target != "" {
		msg = err.Target + ": " + msg
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), msg)

	if err.Context != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", Colorize("Context: "+err.Context, ColorGray, useColor))
	}

	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", Colorize(err.Suggestion, ColorYellow, useColor))
	}

	if err.Example != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", Colorize(err.Example, ColorGray, useColor))
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
