package rules

import (
	"errors"
	"fmt"
)

var (
	ErrMissingReason      = errors.New("deny rule requires a non-empty reason")
	ErrMissingPattern     = errors.New("rule requires a pattern")
	ErrInvalidPattern     = errors.New("pattern is not a valid regular expression")
	ErrAmbiguousPathRule  = errors.New("path rule must set exactly one of pattern or path")
	ErrRulesFileNotFound  = errors.New("rules file not found")
	ErrRulesFileLocked    = errors.New("rules file is locked by another process")
	ErrUnknownRuleSection = errors.New("unknown rule section")
)

// ConfigurationError reports a rule that cannot be loaded.
// It names the offending entry by section and position.
type ConfigurationError struct {
	Kind    Kind
	Index   int
	Pattern string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("%s[%d]: %v", e.Kind, e.Index, e.Err)
	}
	return fmt.Sprintf("%s[%d] pattern %q: %v", e.Kind, e.Index, e.Pattern, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
