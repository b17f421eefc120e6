// Package runnable makes Go functions callable from the command line.
//
// A target is bound once, with its calling contract, and invoked either
// from an argument vector (RunCLI) or directly from Go (Call):
//
//	r, err := runnable.Wrap(Echo)
//	out, err := r.RunCLI(ctx, runnable.Config{Args: []string{"Hello", "--capitalize"}})
//
// Positional tokens fill positional slots in order; "--name v1 v2" binds a
// named slot to a scalar or a list, and a bare "--name" binds true.
package runnable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/aledsdavies/clicake/core/types"
	"github.com/aledsdavies/clicake/internal/logging"
	"github.com/aledsdavies/clicake/runtime/binder"
	"github.com/aledsdavies/clicake/runtime/parser"
)

// Func is a target invoked with its bound call.
type Func func(ctx context.Context, call *binder.Call) (any, error)

// Runnable is a target bound to its calling contract.
type Runnable struct {
	fn        Func
	sig       types.Signature
	validator *types.Validator
}

// New binds fn to sig. The signature is validated here, so a Runnable is
// always backed by a well-formed contract.
func New(fn Func, sig types.Signature) (*Runnable, error) {
	if fn == nil {
		return nil, errors.New("runnable: nil function")
	}
	if err := types.ValidateSignature(sig); err != nil {
		return nil, fmt.Errorf("runnable: invalid signature for %q: %w", sig.Name, err)
	}
	return &Runnable{
		fn:        fn,
		sig:       sig,
		validator: types.NewValidator(nil),
	}, nil
}

// Name returns the target name.
func (r *Runnable) Name() string {
	return r.sig.Name
}

// Signature returns the calling contract.
func (r *Runnable) Signature() types.Signature {
	return r.sig
}

// RunCLI parses cfg's argument vector, binds it to the contract and invokes
// the target. Unless printing is disabled the result is written to the
// configured output. Errors from the target are returned unchanged.
func (r *Runnable) RunCLI(ctx context.Context, cfg Config) (any, error) {
	args := cfg.args()
	logger := cfg.logger(ctx).With("target", r.sig.Name)

	parsed := parser.Parse(args)
	logger.Debug("parsed arguments",
		"tokens", len(args),
		"positionals", len(parsed.Positionals),
		"flags", parsed.Order)

	call, err := binder.Bind(parsed, r.sig, r.validatorFor(cfg))
	if err != nil {
		logger.Debug("binding failed", "error", err)
		return nil, err
	}

	result, err := r.invoke(logging.WithLogger(ctx, logger), call)
	if err != nil {
		return nil, err
	}

	if cfg.printOutput() {
		if err := Print(cfg.stdout(), result); err != nil {
			return result, fmt.Errorf("failed to print result: %w", err)
		}
	}
	return result, nil
}

// Call invokes the target directly with Go values, as an ordinary function
// call would. Arguments are still bound against the contract.
func (r *Runnable) Call(ctx context.Context, positionals []any, named map[string]any) (any, error) {
	call, err := binder.BindValues(positionals, named, r.sig, r.validator)
	if err != nil {
		return nil, err
	}
	return r.invoke(ctx, call)
}

func (r *Runnable) invoke(ctx context.Context, call *binder.Call) (any, error) {
	logging.FromContext(ctx).Debug("invoking target",
		"target", r.sig.Name,
		"positionals", len(call.Positionals),
		"named", len(call.Named))
	return r.fn(ctx, call)
}

func (r *Runnable) validatorFor(cfg Config) *types.Validator {
	if cfg.Validation != nil {
		return types.NewValidator(cfg.Validation)
	}
	return r.validator
}

// Run binds fn to sig and immediately runs it from the command line.
func Run(ctx context.Context, fn Func, sig types.Signature, cfg Config) (any, error) {
	r, err := New(fn, sig)
	if err != nil {
		return nil, err
	}
	return r.RunCLI(ctx, cfg)
}

// RunFunc wraps an ordinary Go function and immediately runs it from the
// command line.
func RunFunc(ctx context.Context, fn any, cfg Config) (any, error) {
	r, err := Wrap(fn)
	if err != nil {
		return nil, err
	}
	return r.RunCLI(ctx, cfg)
}

// Print writes result on one line using its default formatting.
// Targets that return nothing print nothing, and a nil pointer, interface,
// channel or function counts as nothing. Nil slices and maps still print.
func Print(w io.Writer, result any) error {
	if isNothing(result) {
		return nil
	}
	_, err := fmt.Fprintln(w, result)
	return err
}

func isNothing(result any) bool {
	if result == nil {
		return true
	}
	v := reflect.ValueOf(result)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

// Logger returns the logger RunCLI placed in a target's context.
func Logger(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
