package bundle

import (
	"fmt"
	"time"
)

// Config is the bundler configuration parsed from the config file (lasso.json
// by convention, YAML also accepted). It controls where the bundler resolves
// modules from and how the output bundle is emitted.
type Config struct {
	OutputDir         string            `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`                 // Directory the bundle is written to
	ResolveDir        string            `json:"resolveDir,omitempty" yaml:"resolveDir,omitempty"`               // Directory module resolution starts from (node_modules lookup)
	URLPrefix         string            `json:"urlPrefix,omitempty" yaml:"urlPrefix,omitempty"`                 // URL path the dev server mounts the output dir on
	Minify            bool              `json:"minify,omitempty" yaml:"minify,omitempty"`                       // Minify whitespace, identifiers and syntax
	SourceMaps        bool              `json:"sourceMaps,omitempty" yaml:"sourceMaps,omitempty"`               // Emit a linked .map file next to the bundle
	Fingerprint       bool              `json:"fingerprintsEnabled,omitempty" yaml:"fingerprintsEnabled,omitempty"` // Insert a content hash into the bundle file name
	Target            string            `json:"target,omitempty" yaml:"target,omitempty"`                       // JS language target, e.g. "es5", "es2015", "esnext"
	External          []string          `json:"external,omitempty" yaml:"external,omitempty"`                   // Module specifiers left unresolved in the output
	Define            map[string]string `json:"define,omitempty" yaml:"define,omitempty"`                       // Compile-time constant substitutions
	AppendInitSnippet bool              `json:"appendInitSnippet,omitempty" yaml:"appendInitSnippet,omitempty"` // Append the module-loader init snippet after a successful build
}

// DependencyKind tells the bundler whether a dependency is merely included in
// the bundle or included and executed as the page entry point.
type DependencyKind string

const (
	// Require includes a module without executing it at load time.
	Require DependencyKind = "require"
	// RequireRun includes a module and executes it when the page loads.
	RequireRun DependencyKind = "require-run"
)

// Dependency is one parsed dependency specifier.
type Dependency struct {
	Kind DependencyKind
	Path string
}

func (d Dependency) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Path)
}

// Request describes one bundling operation: the name of the bundle to produce
// and the ordered dependencies to include. Order is significant and is
// preserved verbatim when the entry module is synthesized.
type Request struct {
	Name         string
	Dependencies []Dependency
}

// Validate checks the request invariants: a non-empty name and at least one
// dependency.
func (r *Request) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("bundle request is missing a name")
	}
	if len(r.Dependencies) == 0 {
		return fmt.Errorf("bundle request %q has no dependencies", r.Name)
	}
	for i, dep := range r.Dependencies {
		if dep.Path == "" {
			return fmt.Errorf("bundle request %q: dependency %d has an empty path", r.Name, i)
		}
		if dep.Kind != Require && dep.Kind != RequireRun {
			return fmt.Errorf("bundle request %q: dependency %d has unknown kind %q", r.Name, i, dep.Kind)
		}
	}
	return nil
}

// DefaultRequest is the marko-browser page bundle: the playground entry
// script plus the marko runtime, its compiler, the widgets runtime and
// domready.
func DefaultRequest() *Request {
	return &Request{
		Name: "marko-browser",
		Dependencies: []Dependency{
			{Kind: RequireRun, Path: "./source.js"},
			{Kind: Require, Path: "marko"},
			{Kind: Require, Path: "marko/compiler"},
			{Kind: Require, Path: "marko-widgets"},
			{Kind: Require, Path: "domready"},
		},
	}
}

// Result describes the outcome of a successful build.
type Result struct {
	Name       string
	OutputPath string
	Size       int64
	Duration   time.Duration
	Warnings   []string
}
