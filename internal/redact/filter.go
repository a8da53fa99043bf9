package redact

import (
	"fmt"
	"regexp"

	"voicehub/internal/calls"
)

// Filter removes personally identifiable information from call content.
// Pure: the same input always yields the same output and nothing is mutated.
type Filter struct {
	rules []rule
}

type rule struct {
	name        string
	re          *regexp.Regexp
	replacement string
}

// Built-in rule set. Tenants extend it with custom patterns; they cannot
// disable the defaults while redaction is enabled.
var defaultRules = []rule{
	{
		name:        "email",
		re:          regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		replacement: "[redacted-email]",
	},
	{
		name:        "ssn",
		re:          regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		replacement: "[redacted-ssn]",
	},
	{
		name:        "card",
		re:          regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`),
		replacement: "[redacted-card]",
	},
	{
		// After card numbers so shorter digit runs left over are caught here.
		name:        "phone",
		re:          regexp.MustCompile(`\+?\(?\d{1,4}\)?(?:[ .\-]?\(?\d{2,4}\)?){2,4}`),
		replacement: "[redacted-phone]",
	},
}

// NewFilter compiles a filter from tenant config. Custom patterns that fail
// to compile are a configuration error surfaced to the caller.
func NewFilter(cfg Config) (*Filter, error) {
	rules := make([]rule, 0, len(defaultRules)+len(cfg.CustomPatterns))
	rules = append(rules, defaultRules...)
	for i, p := range cfg.CustomPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redact: custom pattern %d: %w", i, err)
		}
		rules = append(rules, rule{name: fmt.Sprintf("custom_%d", i), re: re, replacement: "[redacted]"})
	}
	return &Filter{rules: rules}, nil
}

// Text scrubs a single string.
func (f *Filter) Text(s string) string {
	if s == "" {
		return s
	}
	for _, r := range f.rules {
		s = r.re.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Transcript scrubs every entry's content, returning a new slice.
func (f *Filter) Transcript(entries []calls.TranscriptEntry) []calls.TranscriptEntry {
	if entries == nil {
		return nil
	}
	out := make([]calls.TranscriptEntry, len(entries))
	for i, e := range entries {
		out[i] = calls.TranscriptEntry{Role: e.Role, Content: f.Text(e.Content)}
	}
	return out
}
