package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/michael-freling/agent-rules/internal/config"
	"github.com/michael-freling/agent-rules/internal/hooks"
	"github.com/michael-freling/agent-rules/internal/rules"
	"github.com/michael-freling/agent-rules/internal/scaffold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRules = `deny_tools:
  - pattern: 'rm -rf'
    reason: "Dangerous"
    context: "Use trash instead"
allow_tools:
  - '^git status$'
deny_paths:
  - path: interfaces
    reason: "Generated from the schema repository"
`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeRules(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "agent-rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "agent-rules", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))

	commandNames := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		commandNames = append(commandNames, c.Name())
	}
	assert.ElementsMatch(t, []string{"pre-tool-use", "validate", "init"}, commandNames)
}

func TestNewPreToolUseCmd(t *testing.T) {
	cmd := newPreToolUseCmd()

	assert.Equal(t, "pre-tool-use [rules-file]", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NoError(t, cmd.Args(cmd, []string{}))
	assert.NoError(t, cmd.Args(cmd, []string{"agent-rules.yaml"}))
	assert.Error(t, cmd.Args(cmd, []string{"a.yaml", "b.yaml"}))
}

func TestPreToolUseCmd_Execute(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeRules(t, dir, testRules)

	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		input   string
		want    hooks.HookSpecificOutput
		wantErr bool
	}{
		{
			name:  "denied command",
			args:  []string{rulesPath},
			input: `{"tool_name": "Bash", "tool_input": {"command": "rm -rf build"}}`,
			want: hooks.HookSpecificOutput{
				HookEventName:            "PreToolUse",
				PermissionDecision:       "deny",
				PermissionDecisionReason: "Dangerous",
				AdditionalContext:        "Use trash instead",
			},
		},
		{
			name:  "allowed command",
			args:  []string{rulesPath},
			input: `{"tool_name": "Bash", "tool_input": {"command": "git status"}}`,
			want: hooks.HookSpecificOutput{
				HookEventName:      "PreToolUse",
				PermissionDecision: "allow",
			},
		},
		{
			name:  "rules file found from the agent cwd",
			input: `{"tool_name": "Edit", "tool_input": {"file_path": "interfaces/api.proto"}, "cwd": "` + dir + `"}`,
			want: hooks.HookSpecificOutput{
				HookEventName:            "PreToolUse",
				PermissionDecision:       "deny",
				PermissionDecisionReason: "Generated from the schema repository",
			},
		},
		{
			name:  "rules file from the environment",
			env:   map[string]string{"AGENT_RULES_RULES_FILE": rulesPath},
			input: `{"tool_name": "Bash", "tool_input": {"command": "git status"}}`,
			want: hooks.HookSpecificOutput{
				HookEventName:      "PreToolUse",
				PermissionDecision: "allow",
			},
		},
		{
			name:  "default decision from the environment",
			env:   map[string]string{"AGENT_RULES_DEFAULT_DECISION": "deny"},
			args:  []string{rulesPath},
			input: `{"tool_name": "Bash", "tool_input": {"command": "make"}}`,
			want: hooks.HookSpecificOutput{
				HookEventName:      "PreToolUse",
				PermissionDecision: "deny",
			},
		},
		{
			name:    "unsafe default decision is rejected",
			env:     map[string]string{"AGENT_RULES_DEFAULT_DECISION": "allow"},
			args:    []string{rulesPath},
			input:   `{"tool_name": "Bash", "tool_input": {"command": "make"}}`,
			wantErr: true,
		},
		{
			name:    "missing rules file",
			args:    []string{filepath.Join(dir, "missing.yaml")},
			input:   `{"tool_name": "Bash", "tool_input": {"command": "ls"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			stdout, _, err := execute(t, tt.input, append([]string{"pre-tool-use"}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, stdout)
				return
			}
			require.NoError(t, err)

			var got hooks.Output
			require.NoError(t, json.Unmarshal([]byte(stdout), &got))
			assert.Equal(t, tt.want, got.HookSpecificOutput)
		})
	}
}

func TestPreToolUseCmd_MalformedInputAsks(t *testing.T) {
	rulesPath := writeRules(t, t.TempDir(), testRules)

	stdout, _, err := execute(t, `{invalid json}`, "pre-tool-use", rulesPath)
	require.NoError(t, err)

	var got hooks.Output
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "ask", got.HookSpecificOutput.PermissionDecision)
	assert.NotEmpty(t, got.HookSpecificOutput.PermissionDecisionReason)
}

func TestPreToolUseCmd_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeRules(t, dir, testRules)
	settingsPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte("rules_file: "+rulesPath+"\ndefault_decision: deny\nlog:\n  level: debug\n  format: json\n"), 0o644))

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(`{"tool_name": "Bash", "tool_input": {"command": "make"}, "tool_use_id": "toolu_01"}`))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--config", settingsPath, "pre-tool-use"})
	require.NoError(t, cmd.Execute())

	var got hooks.Output
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "deny", got.HookSpecificOutput.PermissionDecision)
	assert.Contains(t, stderr.String(), `"evaluation_id":"toolu_01"`)
}

func TestValidateCmd(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains []string
		wantErr  error
	}{
		{
			name:    "valid rules in evaluation order",
			content: testRules,
			contains: []string{
				": 3 rules",
				"deny_tools[0]",
				"allow_tools[0]",
				"deny_paths[0]",
				"path /",
				string(filepath.Separator) + "interfaces",
			},
		},
		{
			name:    "missing reason",
			content: "deny_tools:\n  - pattern: rm\n",
			wantErr: rules.ErrMissingReason,
		},
		{
			name:    "invalid pattern",
			content: "allow_tools:\n  - '(unclosed'\n",
			wantErr: rules.ErrInvalidPattern,
		},
		{
			name:    "unknown section",
			content: "block_tools: []\n",
			wantErr: rules.ErrUnknownRuleSection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rulesPath := writeRules(t, t.TempDir(), tt.content)

			stdout, _, err := execute(t, "", "validate", rulesPath)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
			assert.Less(t, strings.Index(stdout, "deny_tools[0]"), strings.Index(stdout, "allow_tools[0]"))
		})
	}
}

func TestValidateCmd_FindsRulesInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, testRules)
	chdir(t, dir)

	stdout, _, err := execute(t, "", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "agent-rules.yaml: 3 rules")

	chdir(t, t.TempDir())
	_, _, err = execute(t, "", "validate")
	assert.ErrorIs(t, err, rules.ErrRulesFileNotFound)
}

func TestInitCmd(t *testing.T) {
	t.Run("list presets", func(t *testing.T) {
		stdout, _, err := execute(t, "", "init", "--list")
		require.NoError(t, err)
		assert.Equal(t, "default\ngo\npython\n", stdout)
	})

	t.Run("writes a loadable rules file", func(t *testing.T) {
		dir := t.TempDir()
		stdout, _, err := execute(t, "", "init", "--preset", "go", "--dir", dir, "--protect", "api,docs/adr")
		require.NoError(t, err)

		target := filepath.Join(dir, "agent-rules.yaml")
		assert.Equal(t, "wrote "+target+"\n", stdout)

		_, _, err = execute(t, "", "validate", target)
		require.NoError(t, err)

		_, _, err = execute(t, "", "init", "--dir", dir)
		assert.ErrorIs(t, err, scaffold.ErrFileExists)

		_, _, err = execute(t, "", "init", "--dir", dir, "--force")
		require.NoError(t, err)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, _, err := execute(t, "", "init", "--preset", "rust", "--dir", t.TempDir())
		assert.ErrorIs(t, err, scaffold.ErrPresetNotFound)
	})

	t.Run("invalid settings", func(t *testing.T) {
		t.Setenv("AGENT_RULES_LOG__FORMAT", "xml")
		_, _, err := execute(t, "", "init", "--dir", t.TempDir())
		assert.ErrorIs(t, err, config.ErrInvalidSettings)
	})
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(oldwd))
	})
}
