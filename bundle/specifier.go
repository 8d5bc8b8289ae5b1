package bundle

import (
	"fmt"
	"strings"
)

// ParseDependency parses one dependency specifier string of the form
// "require: <module>" or "require-run: <path>".
func ParseDependency(spec string) (Dependency, error) {
	kind, path, found := strings.Cut(spec, ":")
	if !found {
		return Dependency{}, fmt.Errorf("invalid dependency specifier %q: missing ':'", spec)
	}

	kind = strings.TrimSpace(kind)
	path = strings.TrimSpace(path)

	switch DependencyKind(kind) {
	case Require, RequireRun:
	default:
		return Dependency{}, fmt.Errorf("invalid dependency specifier %q: unknown kind %q", spec, kind)
	}
	if path == "" {
		return Dependency{}, fmt.Errorf("invalid dependency specifier %q: empty module path", spec)
	}

	return Dependency{Kind: DependencyKind(kind), Path: path}, nil
}

// ParseDependencies parses a list of specifier strings, preserving their
// declared order.
func ParseDependencies(specs []string) ([]Dependency, error) {
	deps := make([]Dependency, 0, len(specs))
	for _, spec := range specs {
		dep, err := ParseDependency(spec)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
