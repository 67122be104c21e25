package helpers

import (
	"os"
	"testing"
)

// CleanupDir removes a directory and reports a failure to t.
func CleanupDir(t *testing.T, dir string) {
	t.Helper()

	if err := os.RemoveAll(dir); err != nil {
		t.Errorf("failed to cleanup directory %s: %v", dir, err)
	}
}
