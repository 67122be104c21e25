package rules

import "fmt"

// Kind identifies what a rule matches against and what it decides.
type Kind int

const (
	// KindToolDeny denies a tool call whose subject matches the pattern.
	KindToolDeny Kind = iota
	// KindToolAsk asks the user to confirm a matching tool call.
	KindToolAsk
	// KindToolAllow allows a matching tool call without asking.
	KindToolAllow
	// KindPathDeny denies a tool call that touches a matching file path.
	KindPathDeny
)

// defaultOrder is the section order used when a Config does not record one.
var defaultOrder = []Kind{KindToolDeny, KindToolAsk, KindToolAllow, KindPathDeny}

var kindNames = map[Kind]string{
	KindToolDeny:  "deny_tools",
	KindToolAsk:   "ask_tools",
	KindToolAllow: "allow_tools",
	KindPathDeny:  "deny_paths",
}

// String returns the configuration section name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the kind for a configuration section name.
func ParseKind(section string) (Kind, error) {
	for kind, name := range kindNames {
		if name == section {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown rule section %q", section)
}

// IsDeny reports whether rules of this kind must carry a reason.
func (k Kind) IsDeny() bool {
	return k == KindToolDeny || k == KindPathDeny
}

// IsPath reports whether rules of this kind match file paths instead of tools.
func (k Kind) IsPath() bool {
	return k == KindPathDeny
}
