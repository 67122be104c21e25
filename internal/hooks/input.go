package hooks

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/michael-freling/agent-rules/internal/policy"
)

// ToolInput represents the PreToolUse payload sent by the agent host.
type ToolInput struct {
	SessionID     string          `json:"session_id"`
	HookEventName string          `json:"hook_event_name"`
	ToolName      string          `json:"tool_name"`
	ToolInput     json.RawMessage `json:"tool_input"`
	ToolUseID     string          `json:"tool_use_id"`
	Cwd           string          `json:"cwd"`
	parsed        map[string]interface{}
}

// ParseToolInput reads and parses tool input JSON from a reader.
// A missing tool name is left for the policy engine to reject.
func ParseToolInput(reader io.Reader) (*ToolInput, error) {
	var input ToolInput
	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if len(input.ToolInput) > 0 && string(input.ToolInput) != "null" {
		var parsed map[string]interface{}
		if err := json.Unmarshal(input.ToolInput, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse tool_input: %w", err)
		}
		input.parsed = parsed
	}

	return &input, nil
}

// Arguments returns the parsed tool arguments.
func (t *ToolInput) Arguments() map[string]interface{} {
	return t.parsed
}

// Request converts the input into a policy request.
func (t *ToolInput) Request() policy.Request {
	return policy.Request{
		ToolName:  t.ToolName,
		Arguments: t.parsed,
		Cwd:       t.Cwd,
	}
}
