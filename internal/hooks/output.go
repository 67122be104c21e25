package hooks

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/michael-freling/agent-rules/internal/policy"
)

const preToolUseEvent = "PreToolUse"

// Output is the hook response written to stdout.
type Output struct {
	HookSpecificOutput HookSpecificOutput `json:"hookSpecificOutput"`
}

// HookSpecificOutput carries the permission decision for a PreToolUse hook.
type HookSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
}

// NewOutput renders a decision. The reason is passed through unchanged.
func NewOutput(decision policy.Decision) *Output {
	return &Output{
		HookSpecificOutput: HookSpecificOutput{
			HookEventName:            preToolUseEvent,
			PermissionDecision:       string(decision.Verdict),
			PermissionDecisionReason: decision.Reason,
			AdditionalContext:        decision.Context,
		},
	}
}

// Write encodes the output as a single JSON line.
func (o *Output) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(o); err != nil {
		return fmt.Errorf("failed to write hook output: %w", err)
	}
	return nil
}
