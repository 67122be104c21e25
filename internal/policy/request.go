package policy

import "path/filepath"

// Request is one pending tool call.
type Request struct {
	ToolName  string
	Arguments map[string]any

	// Cwd is the working directory of the agent, used to resolve relative
	// path arguments. It may be empty.
	Cwd string
}

// StringArg returns the named argument if it is a string.
func (r Request) StringArg(name string) (string, bool) {
	value, ok := r.Arguments[name]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// collectPaths gathers every path-valued argument under names. Values may be
// strings, lists of strings, or lists of objects carrying one of names.
func collectPaths(args map[string]any, names []string) []string {
	var paths []string
	for _, name := range names {
		paths = appendPaths(paths, args[name], names)
	}
	return paths
}

func appendPaths(paths []string, value any, names []string) []string {
	switch v := value.(type) {
	case string:
		if v != "" {
			paths = append(paths, v)
		}
	case []string:
		for _, s := range v {
			paths = appendPaths(paths, s, names)
		}
	case []any:
		for _, item := range v {
			switch item := item.(type) {
			case string:
				paths = appendPaths(paths, item, names)
			case map[string]any:
				for _, name := range names {
					if s, ok := item[name].(string); ok {
						paths = appendPaths(paths, s, names)
					}
				}
			}
		}
	}
	return paths
}

// pathSubjects returns each path as given plus its cleaned absolute form.
func pathSubjects(paths []string, cwd string) []string {
	subjects := make([]string, 0, len(paths)*2)
	seen := make(map[string]struct{}, len(paths)*2)
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		subjects = append(subjects, s)
	}

	for _, p := range paths {
		add(p)
		switch {
		case filepath.IsAbs(p):
			add(filepath.Clean(p))
		case cwd != "":
			add(filepath.Join(cwd, p))
		}
	}
	return subjects
}
