package parser

import (
	"strings"
	"testing"

	"github.com/aledsdavies/clicake/core/types"
	"github.com/google/go-cmp/cmp"
)

func str(s string) types.Value { return types.StringValue(s) }

func num(n int64, raw string) types.Value { return types.IntValue(n, raw) }

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   *ParsedArguments
	}{
		{
			name:   "empty",
			tokens: nil,
			want: &ParsedArguments{
				Positionals: []types.Value{},
				Named:       map[string]types.Value{},
				Order:       []string{},
			},
		},
		{
			name:   "echo with trailing switch",
			tokens: []string{"Hello", "World!", "--capitalize"},
			want: &ParsedArguments{
				Positionals: []types.Value{str("Hello"), str("World!")},
				Named:       map[string]types.Value{"capitalize": types.SwitchValue()},
				Order:       []string{"capitalize"},
			},
		},
		{
			name:   "integers",
			tokens: []string{"1", "7", "8"},
			want: &ParsedArguments{
				Positionals: []types.Value{num(1, "1"), num(7, "7"), num(8, "8")},
				Named:       map[string]types.Value{},
				Order:       []string{},
			},
		},
		{
			name:   "flag with one value",
			tokens: []string{"--file", "notes.txt"},
			want: &ParsedArguments{
				Positionals: []types.Value{},
				Named:       map[string]types.Value{"file": str("notes.txt")},
				Order:       []string{"file"},
			},
		},
		{
			name:   "flag with many values",
			tokens: []string{"--ids", "1", "two", "3.5"},
			want: &ParsedArguments{
				Positionals: []types.Value{},
				Named: map[string]types.Value{
					"ids": types.ListValue(num(1, "1"), str("two"), types.FloatValue(3.5, "3.5")),
				},
				Order: []string{"ids"},
			},
		},
		{
			name:   "flag followed by flag",
			tokens: []string{"--x", "--y", "v"},
			want: &ParsedArguments{
				Positionals: []types.Value{},
				Named: map[string]types.Value{
					"x": types.SwitchValue(),
					"y": str("v"),
				},
				Order: []string{"x", "y"},
			},
		},
		{
			name:   "hyphen count is irrelevant",
			tokens: []string{"-a", "1", "---b", "2"},
			want: &ParsedArguments{
				Positionals: []types.Value{},
				Named: map[string]types.Value{
					"a": num(1, "1"),
					"b": num(2, "2"),
				},
				Order: []string{"a", "b"},
			},
		},
		{
			name:   "last occurrence wins",
			tokens: []string{"--a", "1", "--b", "--a", "2", "3"},
			want: &ParsedArguments{
				Positionals: []types.Value{},
				Named: map[string]types.Value{
					"a": types.ListValue(num(2, "2"), num(3, "3")),
					"b": types.SwitchValue(),
				},
				Order: []string{"a", "b"},
			},
		},
		{
			name:   "values after a flag never return to positionals",
			tokens: []string{"a", "--f", "1", "b"},
			want: &ParsedArguments{
				Positionals: []types.Value{str("a")},
				Named: map[string]types.Value{
					"f": types.ListValue(num(1, "1"), str("b")),
				},
				Order: []string{"f"},
			},
		},
		{
			name:   "negative number is a flag",
			tokens: []string{"-5"},
			want: &ParsedArguments{
				Positionals: []types.Value{},
				Named:       map[string]types.Value{"5": types.SwitchValue()},
				Order:       []string{"5"},
			},
		},
		{
			name:   "lone hyphens name the empty flag",
			tokens: []string{"-", "x", "--"},
			want: &ParsedArguments{
				Positionals: []types.Value{},
				Named:       map[string]types.Value{"": types.SwitchValue()},
				Order:       []string{""},
			},
		},
		{
			name:   "keyword literals",
			tokens: []string{"None", "--debug", "False"},
			want: &ParsedArguments{
				Positionals: []types.Value{types.NullValue("None")},
				Named:       map[string]types.Value{"debug": types.BoolValue(false, "False")},
				Order:       []string{"debug"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.tokens)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.tokens, diff)
			}
		})
	}
}

func TestParseDoesNotRetainInput(t *testing.T) {
	tokens := []string{"a", "--f", "b"}
	got := Parse(tokens)
	tokens[0], tokens[2] = "changed", "changed"

	if got.Positionals[0].Str != "a" || got.Named["f"].Str != "b" {
		t.Errorf("parse result changed with input slice: %s", got)
	}
}

func TestParsedArgumentsNativeValues(t *testing.T) {
	got := Parse([]string{"1", "x", "--ratio", "0.5", "--tags", "a", "b", "--on"})

	if diff := cmp.Diff([]any{int64(1), "x"}, got.PositionalValues()); diff != "" {
		t.Errorf("PositionalValues() mismatch (-want +got):\n%s", diff)
	}

	wantNamed := map[string]any{
		"ratio": 0.5,
		"tags":  []any{"a", "b"},
		"on":    true,
	}
	if diff := cmp.Diff(wantNamed, got.NamedValues()); diff != "" {
		t.Errorf("NamedValues() mismatch (-want +got):\n%s", diff)
	}
}

func TestParsedArgumentsString(t *testing.T) {
	got := Parse([]string{"Hello", "--b", "--a", "1", "2"}).String()
	want := strings.Join([]string{
		`positionals: ["Hello"]`,
		`--b = true`,
		`--a = [1, 2]`,
	}, "\n")

	if got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"Hello\x00World!\x00--capitalize",
		"1\x007\x008",
		"--a\x00--\x00-\x00x",
		"-5\x00None\x00True\x001e400",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		var tokens []string
		if input != "" {
			tokens = strings.Split(input, "\x00")
		}

		got := Parse(tokens)

		flags := 0
		firstFlag := len(tokens)
		for i, tok := range tokens {
			if strings.HasPrefix(tok, "-") {
				if flags == 0 {
					firstFlag = i
				}
				flags++
			}
		}

		if len(got.Positionals) != firstFlag {
			t.Fatalf("got %d positionals, want %d", len(got.Positionals), firstFlag)
		}
		if len(got.Named) != len(got.Order) {
			t.Fatalf("Named has %d names but Order has %d", len(got.Named), len(got.Order))
		}
		if len(got.Named) > flags {
			t.Fatalf("%d names bound from %d flag markers", len(got.Named), flags)
		}
	})
}
