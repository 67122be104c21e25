package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Store is the ordered, validated set of rules for a session.
// It is immutable once built and safe to share between goroutines.
type Store struct {
	rules []Rule
}

type storeOptions struct {
	baseDir string
}

// StoreOption configures NewStore.
type StoreOption func(*storeOptions)

// WithBaseDir sets the directory that relative path rules are resolved against.
func WithBaseDir(dir string) StoreOption {
	return func(o *storeOptions) {
		o.baseDir = dir
	}
}

// NewStore validates cfg and compiles its rules in declaration order.
// Any invalid entry fails the whole load with a *ConfigurationError.
func NewStore(cfg Config, opts ...StoreOption) (*Store, error) {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}

	var compiled []Rule
	for _, kind := range cfg.sectionOrder() {
		if kind.IsPath() {
			for i, entry := range cfg.DenyPaths {
				rule, err := newPathRule(i, entry, o.baseDir)
				if err != nil {
					return nil, err
				}
				compiled = append(compiled, rule)
			}
			continue
		}

		for i, entry := range cfg.toolEntries(kind) {
			rule, err := newRule(kind, i, entry.Pattern, entry.Reason, entry.Context)
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, rule)
		}
	}

	return &Store{rules: compiled}, nil
}

// Rules returns the rules in evaluation order.
func (s *Store) Rules() []Rule {
	if s == nil {
		return nil
	}
	return slices.Clone(s.rules)
}

// Len returns the number of rules.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

func newRule(kind Kind, index int, pattern, reason, context string) (Rule, error) {
	if pattern == "" {
		return Rule{}, &ConfigurationError{Kind: kind, Index: index, Err: ErrMissingPattern}
	}
	if kind.IsDeny() && strings.TrimSpace(reason) == "" {
		return Rule{}, &ConfigurationError{Kind: kind, Index: index, Pattern: pattern, Err: ErrMissingReason}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, &ConfigurationError{
			Kind:    kind,
			Index:   index,
			Pattern: pattern,
			Err:     fmt.Errorf("%w: %v", ErrInvalidPattern, err),
		}
	}

	return Rule{
		Kind:    kind,
		Index:   index,
		Pattern: pattern,
		Reason:  reason,
		Context: context,
		re:      re,
	}, nil
}

func newPathRule(index int, entry PathEntry, baseDir string) (Rule, error) {
	if (entry.Pattern == "") == (entry.Path == "") {
		return Rule{}, &ConfigurationError{
			Kind:    KindPathDeny,
			Index:   index,
			Pattern: entry.Pattern + entry.Path,
			Err:     ErrAmbiguousPathRule,
		}
	}
	if entry.Pattern != "" {
		return newRule(KindPathDeny, index, entry.Pattern, entry.Reason, entry.Context)
	}

	if strings.TrimSpace(entry.Reason) == "" {
		return Rule{}, &ConfigurationError{Kind: KindPathDeny, Index: index, Pattern: entry.Path, Err: ErrMissingReason}
	}

	path := entry.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	path = filepath.Clean(path)

	rule, err := newRule(KindPathDeny, index, pathPattern(path), entry.Reason, entry.Context)
	if err != nil {
		return Rule{}, err
	}
	rule.Path = path
	return rule, nil
}

// pathPattern matches path itself and everything below it.
func pathPattern(path string) string {
	quoted := "^" + regexp.QuoteMeta(path)
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return quoted
	}
	return quoted + "(?:" + regexp.QuoteMeta(string(filepath.Separator)) + "|$)"
}
