package runnable

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aledsdavies/clicake/core/types"
	"github.com/aledsdavies/clicake/internal/logging"
)

// Config controls a single command-line invocation. The zero value reads
// os.Args[1:] and prints the result to os.Stdout.
type Config struct {
	// Args is the argument vector, without the program name.
	// Nil means os.Args[1:]; an empty non-nil slice means no arguments.
	Args []string

	// PrintOutput controls printing of the result. Nil means true.
	PrintOutput *bool

	// Stdout receives the printed result. Nil means os.Stdout.
	Stdout io.Writer

	// Logger receives debug records. Nil means the logger in the context,
	// or none at all.
	Logger *slog.Logger

	// Validation overrides the contract validator settings.
	Validation *types.ValidationConfig
}

// Bool returns a pointer to v, for Config.PrintOutput.
func Bool(v bool) *bool {
	return ptr(v)
}

func (c Config) args() []string {
	if c.Args == nil {
		return os.Args[1:]
	}
	return c.Args
}

func (c Config) printOutput() bool {
	return valueOrDefault(c.PrintOutput, true)
}

func (c Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c Config) logger(ctx context.Context) *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.FromContext(ctx)
}

func valueOrDefault[T any](ptr *T, def T) T {
	if ptr != nil {
		return *ptr
	}
	return def
}

func ptr[T any](v T) *T {
	return &v
}
