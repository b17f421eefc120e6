package builtins

import (
	"bytes"
	"context"
	"testing"

	"github.com/aledsdavies/clicake/runnable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, name string, args ...string) (any, string) {
	t.Helper()

	r, ok := runnable.Lookup(name)
	require.True(t, ok, "builtin %q not registered", name)

	var stdout bytes.Buffer
	out, err := r.RunCLI(context.Background(), runnable.Config{Args: args, Stdout: &stdout})
	require.NoError(t, err)
	return out, stdout.String()
}

func TestEcho(t *testing.T) {
	out, printed := run(t, "echo", "Hello", "World!", "--capitalize")
	assert.Equal(t, "HELLO WORLD!", out)
	assert.Equal(t, "HELLO WORLD!\n", printed)

	out, _ = run(t, "echo", "Hello", "World!")
	assert.Equal(t, "Hello World!", out)
}

func TestSum(t *testing.T) {
	out, printed := run(t, "sum", "1", "7", "8")
	assert.Equal(t, int64(16), out)
	assert.Equal(t, "16\n", printed)

	out, _ = run(t, "sum", "1", "None", "2")
	assert.Equal(t, int64(3), out)

	r, _ := runnable.Lookup("sum")
	direct, err := r.Call(context.Background(), []any{1, 3, 5, 9}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(18), direct)
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := runnable.NewRegistry()
	require.NoError(t, Register(reg))
	assert.Equal(t, []string{"echo", "sum"}, reg.Names())
	assert.Error(t, Register(reg))
}
