package rules

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Entry is one configured tool rule.
// In YAML it is either a mapping or a bare pattern string.
type Entry struct {
	Pattern string `yaml:"pattern"`
	Reason  string `yaml:"reason,omitempty"`
	Context string `yaml:"context,omitempty"`
}

// PathEntry is one configured path rule. Exactly one of Pattern or Path is set.
type PathEntry struct {
	Pattern string `yaml:"pattern,omitempty"`
	Path    string `yaml:"path,omitempty"`
	Reason  string `yaml:"reason,omitempty"`
	Context string `yaml:"context,omitempty"`
}

// Config is the deserialized content of a rules file.
type Config struct {
	DenyTools  []Entry     `yaml:"deny_tools,omitempty"`
	AskTools   []Entry     `yaml:"ask_tools,omitempty"`
	AllowTools []Entry     `yaml:"allow_tools,omitempty"`
	DenyPaths  []PathEntry `yaml:"deny_paths,omitempty"`

	// Order lists the sections in the order they were declared.
	// When empty, deny_tools, ask_tools, allow_tools, deny_paths is used.
	Order []Kind `yaml:"-"`
}

// ParseConfig decodes a YAML rules document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse rules: %w", err)
	}
	return cfg, nil
}

// UnmarshalYAML decodes the sections one by one so that their order is kept.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rules must be a mapping of sections", node.Line)
	}

	var cfg Config
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		kind, err := ParseKind(key.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w: %q", key.Line, ErrUnknownRuleSection, key.Value)
		}
		if slices.Contains(cfg.Order, kind) {
			return fmt.Errorf("line %d: section %s is declared twice", key.Line, kind)
		}

		var target any
		switch kind {
		case KindToolDeny:
			target = &cfg.DenyTools
		case KindToolAsk:
			target = &cfg.AskTools
		case KindToolAllow:
			target = &cfg.AllowTools
		case KindPathDeny:
			target = &cfg.DenyPaths
		}
		if err := value.Decode(target); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		cfg.Order = append(cfg.Order, kind)
	}

	*c = cfg
	return nil
}

func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*e = Entry{Pattern: node.Value}
		return nil
	}
	if err := checkFields(node, "pattern", "reason", "context"); err != nil {
		return err
	}
	type plain Entry
	return node.Decode((*plain)(e))
}

func (e *PathEntry) UnmarshalYAML(node *yaml.Node) error {
	if err := checkFields(node, "pattern", "path", "reason", "context"); err != nil {
		return err
	}
	type plain PathEntry
	return node.Decode((*plain)(e))
}

func checkFields(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rule must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown rule field %q", key.Line, key.Value)
		}
	}
	return nil
}

// sectionOrder returns the evaluation order of the sections. Sections that
// carry entries but are missing from Order follow in the default order.
func (c Config) sectionOrder() []Kind {
	if len(c.Order) == 0 {
		return defaultOrder
	}
	order := slices.Clone(c.Order)
	for _, kind := range defaultOrder {
		if !slices.Contains(order, kind) {
			order = append(order, kind)
		}
	}
	return order
}

func (c Config) toolEntries(kind Kind) []Entry {
	switch kind {
	case KindToolDeny:
		return c.DenyTools
	case KindToolAsk:
		return c.AskTools
	case KindToolAllow:
		return c.AllowTools
	}
	return nil
}
