package hooks

import (
	"context"

	"github.com/michael-freling/agent-rules/internal/rules"
)

//go:generate mockgen -source=loader.go -destination=mock_loader.go -package=hooks

// StoreLoader locates and loads the rules for a tool call.
type StoreLoader interface {
	// Find returns the rules file in dir.
	Find(dir string) (string, error)
	// Load reads the rules file at path.
	Load(ctx context.Context, path string) (*rules.Store, error)
}
