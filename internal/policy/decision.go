package policy

import "fmt"

// Verdict is the outcome of evaluating a tool call.
// The values match the permission decisions understood by hook hosts.
type Verdict string

const (
	VerdictAllow Verdict = "allow"
	VerdictDeny  Verdict = "deny"
	VerdictAsk   Verdict = "ask"
)

// ParseVerdict converts a configured decision name into a Verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(s); v {
	case VerdictAllow, VerdictDeny, VerdictAsk:
		return v, nil
	}
	return "", fmt.Errorf("unknown decision %q", s)
}

// Decision is the engine's verdict on one tool call.
type Decision struct {
	Verdict Verdict

	// Reason is forwarded to the agent unchanged.
	Reason string

	// Context is optional extra guidance attached to the matching rule.
	Context string

	// Rule names the rule that produced the decision, e.g. "deny_tools[0]".
	// It is empty when the default decision applied.
	Rule string
}

// Allow returns a decision that lets the tool call proceed.
func Allow() Decision {
	return Decision{Verdict: VerdictAllow}
}

// Deny returns a decision that blocks the tool call with reason.
func Deny(reason string) Decision {
	return Decision{Verdict: VerdictDeny, Reason: reason}
}

// Ask returns a decision that hands the tool call to the user.
func Ask(reason string) Decision {
	return Decision{Verdict: VerdictAsk, Reason: reason}
}

// Matched reports whether a rule produced the decision.
func (d Decision) Matched() bool {
	return d.Rule != ""
}
