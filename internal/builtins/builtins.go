// Package builtins provides the targets the clicake command ships with.
package builtins

import (
	"context"
	"fmt"
	"strings"

	"github.com/aledsdavies/clicake/core/types"
	"github.com/aledsdavies/clicake/runnable"
	"github.com/aledsdavies/clicake/runtime/binder"
)

func init() {
	if err := Register(runnable.Global()); err != nil {
		panic(err)
	}
}

// Register adds every builtin target to reg.
func Register(reg *runnable.Registry) error {
	echo, err := runnable.WrapNamed("echo", Echo)
	if err != nil {
		return err
	}
	sum, err := runnable.New(sumFunc, SumSignature())
	if err != nil {
		return err
	}

	for _, r := range []*runnable.Runnable{echo, sum} {
		if err := reg.Register(r.Name(), r); err != nil {
			return err
		}
	}
	return nil
}

// EchoOptions are the flags accepted by echo.
type EchoOptions struct {
	Capitalize bool `flag:"capitalize" help:"upper-case every word"`
}

// Echo joins words with single spaces.
func Echo(opts EchoOptions, words ...string) string {
	out := strings.Join(words, " ")
	if opts.Capitalize {
		out = strings.ToUpper(out)
	}
	return out
}

// SumSignature is the contract of sum: any number of integers.
func SumSignature() types.Signature {
	return types.NewSignature("sum").
		Description("Add integers").
		Variadic("nums", types.TypeInt).Description("integers to add").Done().
		Build()
}

func sumFunc(ctx context.Context, call *binder.Call) (any, error) {
	var total int64
	for i, v := range call.Positionals {
		if v == nil {
			continue
		}
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("argument %d: expected integer, got %T", i+1, v)
		}
		total += n
	}
	return total, nil
}
