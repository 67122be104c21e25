package rules

import (
	"fmt"
	"regexp"
)

// Rule is a single validated policy entry.
type Rule struct {
	Kind Kind
	// Index is the position of the entry inside its configuration section.
	Index   int
	Pattern string
	// Path is set for path rules configured by file or directory rather than
	// by pattern. Pattern then holds the expression derived from it.
	Path    string
	Reason  string
	Context string

	re *regexp.Regexp
}

// Name identifies the rule by its section and position, e.g. "deny_tools[2]".
func (r Rule) Name() string {
	return fmt.Sprintf("%s[%d]", r.Kind, r.Index)
}

// Match reports whether the pattern matches anywhere in subject.
// Anchors (^ and $) are required for whole-string matches.
func (r Rule) Match(subject string) bool {
	if r.re == nil {
		return false
	}
	return r.re.MatchString(subject)
}
