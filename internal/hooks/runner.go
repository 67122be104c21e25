package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/michael-freling/agent-rules/internal/policy"
)

var ErrNoWorkingDirectory = errors.New("no cwd in tool input and no rules file given")

// Runner answers one PreToolUse hook call: it reads the tool call, loads the
// rules, evaluates them and writes the decision.
type Runner struct {
	loader     StoreLoader
	rulesFile  string
	engineOpts []policy.Option
	logger     *slog.Logger
	newID      func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRulesFile uses path instead of looking up the rules in the agent's cwd.
func WithRulesFile(path string) RunnerOption {
	return func(r *Runner) {
		r.rulesFile = path
	}
}

// WithEngineOptions passes options to the policy engine.
func WithEngineOptions(opts ...policy.Option) RunnerOption {
	return func(r *Runner) {
		r.engineOpts = append(r.engineOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner that loads rules with loader.
func NewRunner(loader StoreLoader, opts ...RunnerOption) *Runner {
	r := &Runner{
		loader: loader,
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates the tool call read from in and writes the hook output to out.
//
// A tool call that cannot be read or classified is answered with ask.
// Errors loading the rules are returned without writing any output, so the
// caller can report them to the operator.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (policy.Decision, error) {
	input, err := ParseToolInput(in)
	if err != nil {
		r.logger.Warn("cannot read tool call", "error", err)
		return r.respond(out, policy.Ask(fmt.Sprintf("agent-rules could not read the tool call: %v", err)))
	}

	logger := r.logger.With("evaluation_id", r.evaluationID(input), "tool", input.ToolName)

	path, err := r.rulesPath(input)
	if err != nil {
		return policy.Decision{}, err
	}

	store, err := r.loader.Load(ctx, path)
	if err != nil {
		return policy.Decision{}, fmt.Errorf("failed to load rules: %w", err)
	}
	logger.Debug("loaded rules", "path", path, "count", store.Len())

	engine, err := policy.NewEngine(store, r.engineOpts...)
	if err != nil {
		return policy.Decision{}, fmt.Errorf("failed to create policy engine: %w", err)
	}

	decision, err := engine.Evaluate(input.Request())
	if err != nil {
		logger.Warn("cannot classify tool call", "error", err)
	}
	logger.Info("evaluated tool call",
		"verdict", decision.Verdict,
		"rule", decision.Rule,
	)

	return r.respond(out, decision)
}

func (r *Runner) rulesPath(input *ToolInput) (string, error) {
	if r.rulesFile != "" {
		return r.rulesFile, nil
	}
	if input.Cwd == "" {
		return "", ErrNoWorkingDirectory
	}

	path, err := r.loader.Find(input.Cwd)
	if err != nil {
		return "", fmt.Errorf("failed to find rules: %w", err)
	}
	return path, nil
}

func (r *Runner) evaluationID(input *ToolInput) string {
	if input.ToolUseID != "" {
		return input.ToolUseID
	}
	return r.newID()
}

func (r *Runner) respond(out io.Writer, decision policy.Decision) (policy.Decision, error) {
	if err := NewOutput(decision).Write(out); err != nil {
		return decision, err
	}
	return decision, nil
}
