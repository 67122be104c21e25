package policy

import (
	"strings"

	"github.com/michael-freling/agent-rules/internal/rules"
)

// DefaultPathArguments are the tool arguments inspected for file paths.
var DefaultPathArguments = []string{"path", "file_path", "filePath", "notebook_path", "paths", "replacements"}

// commandArgument holds the command line of shell-like tools.
const commandArgument = "command"

// Engine decides tool calls against a rule store. It holds no mutable state
// after construction, so Evaluate may be called concurrently.
type Engine struct {
	rules          []rules.Rule
	defaultVerdict Verdict
	commandTools   map[string]struct{}
	pathArguments  []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefault sets the verdict returned when no rule matches.
// Only VerdictAsk and VerdictDeny are accepted by NewEngine.
func WithDefault(verdict Verdict) Option {
	return func(e *Engine) {
		e.defaultVerdict = verdict
	}
}

// WithCommandTools names tools whose "command" argument, rather than the
// tool name, is matched by tool rules.
func WithCommandTools(names ...string) Option {
	return func(e *Engine) {
		for _, name := range names {
			e.commandTools[name] = struct{}{}
		}
	}
}

// WithPathArguments replaces the argument names inspected for file paths.
func WithPathArguments(names ...string) Option {
	return func(e *Engine) {
		e.pathArguments = names
	}
}

// NewEngine creates an engine over store.
func NewEngine(store *rules.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	e := &Engine{
		rules:          store.Rules(),
		defaultVerdict: VerdictAsk,
		commandTools:   make(map[string]struct{}),
		pathArguments:  DefaultPathArguments,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.defaultVerdict != VerdictAsk && e.defaultVerdict != VerdictDeny {
		return nil, ErrUnsafeDefault
	}

	return e, nil
}

// Evaluate returns the decision of the first rule matching req, or the
// default decision when none does. A request without a tool name yields an
// *InvalidRequestError together with an ask decision, never an allow.
func (e *Engine) Evaluate(req Request) (Decision, error) {
	if strings.TrimSpace(req.ToolName) == "" {
		err := &InvalidRequestError{Field: "tool_name"}
		return Ask(err.Error()), err
	}

	subject := e.toolSubject(req)
	paths := pathSubjects(collectPaths(req.Arguments, e.pathArguments), req.Cwd)

	for _, rule := range e.rules {
		if !matches(rule, subject, paths) {
			continue
		}
		return decide(rule), nil
	}

	return Decision{Verdict: e.defaultVerdict}, nil
}

// toolSubject is the string tool rules are matched against: the command line
// for command tools, the tool name otherwise.
func (e *Engine) toolSubject(req Request) string {
	if _, ok := e.commandTools[req.ToolName]; ok {
		if command, ok := req.StringArg(commandArgument); ok && command != "" {
			return command
		}
	}
	return req.ToolName
}

func matches(rule rules.Rule, subject string, paths []string) bool {
	if !rule.Kind.IsPath() {
		return rule.Match(subject)
	}
	for _, p := range paths {
		if rule.Match(p) {
			return true
		}
	}
	return false
}

func decide(rule rules.Rule) Decision {
	d := Decision{
		Reason:  rule.Reason,
		Context: rule.Context,
		Rule:    rule.Name(),
	}
	switch rule.Kind {
	case rules.KindToolAllow:
		d.Verdict = VerdictAllow
	case rules.KindToolAsk:
		d.Verdict = VerdictAsk
	default:
		d.Verdict = VerdictDeny
	}
	return d
}
