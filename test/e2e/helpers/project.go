package helpers

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Binary is the agent-rules executable looked up in PATH.
const Binary = "agent-rules"

// TempProject is a temporary project directory an agent would work in.
type TempProject struct {
	Dir string
	t   *testing.T
}

// NewTempProject creates an empty project directory that is removed when
// the test ends.
func NewTempProject(t *testing.T) *TempProject {
	t.Helper()

	dir, err := os.MkdirTemp("", "agent-rules-e2e-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	p := &TempProject{
		Dir: dir,
		t:   t,
	}
	t.Cleanup(func() {
		CleanupDir(t, p.Dir)
	})
	return p
}

// CreateFile writes content to path relative to the project directory.
func (p *TempProject) CreateFile(path, content string) error {
	p.t.Helper()

	fullPath := filepath.Join(p.Dir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", fullPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	return nil
}

// Run executes agent-rules inside the project directory with stdin as its
// input. Settings are isolated from the user running the tests.
func (p *TempProject) Run(stdin string, args ...string) (string, string, error) {
	p.t.Helper()

	cmd := exec.Command(Binary, append([]string{"--config", filepath.Join(p.Dir, ".agent-rules-settings.yaml")}, args...)...)
	cmd.Dir = p.Dir
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("%s %s failed: %w: %s", Binary, strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), stderr.String(), nil
}

// RequireBinary skips the test when agent-rules is not installed.
func RequireBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(Binary); err != nil {
		t.Skipf("%s not found in PATH, run go install ./cmd/agent-rules first", Binary)
	}
}
