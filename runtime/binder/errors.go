package binder

import (
	"errors"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Error kinds reported in BindError.Kind. Use errors.Is to test for them.
var (
	ErrUnknownFlag = errors.New("unknown flag")
	ErrArity       = errors.New("wrong number of positional arguments")
	ErrKind        = errors.New("argument has the wrong kind")
	ErrSchema      = errors.New("arguments do not satisfy the contract")
)

// BindError reports command-line arguments that do not fit a target's
// calling contract.
type BindError struct {
	Kind       error  // One of the Err* sentinels
	Target     string // Signature name
	Message    string // Clear, specific error message
	Context    string // Which argument was being bound
	Suggestion string // How to fix it
	Example    string // Valid example
	Cause      error  // Underlying error, if any
}

func (e *BindError) Error() string {
	var b strings.Builder
	if e.Target != "" {
		b.WriteString(e.Target)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		b.WriteString("\n")
		b.WriteString(e.Suggestion)
	}
	if e.Example != "" {
		b.WriteString("\n")
		b.WriteString(e.Example)
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *BindError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// findClosestMatch finds the candidate a mistyped flag most likely meant.
// Abbreviations are ranked by fuzzy matching; misspellings fall back to
// edit distance.
func findClosestMatch(target string, candidates []string) string {
	if len(candidates) == 0 || target == "" {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", maxSuggestDistance(target)+1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(target), strings.ToLower(c))
		if d < bestDistance || (d == bestDistance && c < best) {
			best, bestDistance = c, d
		}
	}
	return best
}

func maxSuggestDistance(target string) int {
	if n := len(target) / 3; n > 2 {
		return n
	}
	return 2
}
