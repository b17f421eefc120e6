// Command clicake runs registered Go targets from the command line.
//
//	clicake [global flags] <target> [tokens...]
//	clicake inspect [tokens...]
//	clicake schema <target>
//	clicake list
package main

import (
	"context"
	"io"
	"os"

	_ "github.com/aledsdavies/clicake/internal/builtins"
	"github.com/aledsdavies/clicake/runnable"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	app := newApp(runnable.Global(), environ, stdout, stderr)
	cmd := app.rootCmd()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		FormatError(stderr, err, ShouldUseColor(app.settings.NoColor || app.flags.noColor, environ, stderr))
		return 1
	}
	return 0
}
