package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/aledsdavies/clicake/runtime/binder"
	"github.com/google/go-cmp/cmp"
)

func TestFormatError(t *testing.T) {
	bindErr := &binder.BindError{
		Kind:       binder.ErrUnknownFlag,
		Target:     "echo",
		Message:    "unknown flag --capitalise",
		Context:    "flag --capitalise",
		Suggestion: "Did you mean --capitalize?",
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "plain",
			err:  errors.New("boom"),
			want: "Error: boom\n",
		},
		{
			name: "bind error",
			err:  bindErr,
			want: "Error: echo: unknown flag --capitalise\n" +
				"  Context: flag --capitalise\n" +
				"  Did you mean --capitalize?\n",
		},
		{
			name: "wrapped bind error",
			err:  fmt.Errorf("running: %w", bindErr),
			want: "Error: echo: unknown flag --capitalise\n" +
				"  Context: flag --capitalise\n" +
				"  Did you mean --capitalize?\n",
		},
		{
			name: "cli error",
			err: &CLIError{
				Type:    "config",
				Message: "invalid config a.hcl",
				Details: "a.hcl:1,8: Invalid expression",
				Hint:    "Check the file",
			},
			want: "Error: invalid config a.hcl\n\na.hcl:1,8: Invalid expression\nHint: Check the file\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatError(&buf, tt.err, false)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("FormatError() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatErrorColor(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, errors.New("boom"), true)

	want := ColorRed + "Error: " + ColorReset + "boom\n"
	if got := buf.String(); got != want {
		t.Errorf("FormatError() = %q, want %q", got, want)
	}
}

func TestShouldUseColor(t *testing.T) {
	if ShouldUseColor(true, nil, nil) {
		t.Error("--no-color must disable color")
	}
	if ShouldUseColor(false, nil, &bytes.Buffer{}) {
		t.Error("non-terminal writers must not be colored")
	}
}

func TestColorDisabled(t *testing.T) {
	// The process environment must not leak into the decision.
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name    string
		flag    bool
		environ []string
		want    bool
	}{
		{name: "nothing set", environ: []string{"TERM=xterm"}, want: false},
		{name: "flag", flag: true, want: true},
		{name: "NO_COLOR in environ", environ: []string{"NO_COLOR=1"}, want: true},
		{name: "empty NO_COLOR", environ: []string{"NO_COLOR="}, want: false},
		{name: "similar name", environ: []string{"NO_COLOR_X=1"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colorDisabled(tt.flag, tt.environ); got != tt.want {
				t.Errorf("colorDisabled(%v, %q) = %v, want %v", tt.flag, tt.environ, got, tt.want)
			}
		})
	}
}
