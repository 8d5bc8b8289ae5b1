package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
)

// Bundler performs bundling operations against one loaded Config. All module
// resolution, dependency-graph construction and output generation is esbuild's;
// the bundler only synthesizes the entry module and places the output.
type Bundler struct {
	cfg *Config
}

func NewBundler(cfg *Config) *Bundler {
	return &Bundler{cfg: cfg}
}

// GenerateEntry synthesizes the virtual entry module for a request. Lines are
// emitted in the declared dependency order: require-run dependencies execute
// at load time, require dependencies are registered as lazy factories on
// window.__modules__ so they are bundled but not executed until first use.
func GenerateEntry(req *Request) string {
	var b strings.Builder
	b.WriteString("window.__modules__ = window.__modules__ || {};\n")
	for _, dep := range req.Dependencies {
		switch dep.Kind {
		case RequireRun:
			fmt.Fprintf(&b, "require(%q);\n", dep.Path)
		case Require:
			fmt.Fprintf(&b, "window.__modules__[%q] = function () { return require(%q); };\n", dep.Path, dep.Path)
		}
	}
	return b.String()
}

// Build runs one bundling operation. On success the bundle is written to
// <outputDir>/<name>.js (with a content hash inserted when fingerprinting is
// enabled) and, if AppendInitSnippet is set, the init snippet is appended.
// On failure every esbuild message is joined into a single error; there is no
// retry or partial-success handling.
func (b *Bundler) Build(req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	opts, err := b.buildOptions(req, false)
	if err != nil {
		return nil, err
	}
	result := api.Build(opts)
	if len(result.Errors) > 0 {
		return nil, buildError(req.Name, result.Errors)
	}

	outPath, size, err := b.writeOutputs(req, result.OutputFiles)
	if err != nil {
		return nil, err
	}

	if b.cfg.AppendInitSnippet {
		if err := AppendInitSnippet(outPath); err != nil {
			return nil, err
		}
		size += int64(len(InitSnippet))
	}

	return &Result{
		Name:       req.Name,
		OutputPath: outPath,
		Size:       size,
		Duration:   time.Since(start),
		Warnings:   messageTexts(result.Warnings),
	}, nil
}

// writeOutputs places the emitted files into the output directory. The
// JavaScript bundle gets the final (possibly fingerprinted) name, auxiliary
// outputs such as source maps keep theirs.
func (b *Bundler) writeOutputs(req *Request, files []api.OutputFile) (string, int64, error) {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", 0, fmt.Errorf("cannot create output directory '%s': %w", b.cfg.OutputDir, err)
	}

	var outPath string
	var size int64
	for _, f := range files {
		name := filepath.Base(f.Path)
		if filepath.Ext(name) == ".js" {
			if b.cfg.Fingerprint {
				sum := sha256.Sum256(f.Contents)
				name = fmt.Sprintf("%s-%s.js", req.Name, hex.EncodeToString(sum[:])[:8])
			}
			outPath = filepath.Join(b.cfg.OutputDir, name)
			size = int64(len(f.Contents))
		}
		if err := os.WriteFile(filepath.Join(b.cfg.OutputDir, name), f.Contents, 0644); err != nil {
			return "", 0, fmt.Errorf("cannot write bundle output '%s': %w", name, err)
		}
	}
	if outPath == "" {
		return "", 0, fmt.Errorf("bundle %q produced no JavaScript output", req.Name)
	}
	return outPath, size, nil
}

func (b *Bundler) buildOptions(req *Request, write bool) (api.BuildOptions, error) {
	target, err := targetFor(b.cfg.Target)
	if err != nil {
		return api.BuildOptions{}, err
	}
	resolveDir, err := filepath.Abs(b.cfg.ResolveDir)
	if err != nil {
		return api.BuildOptions{}, fmt.Errorf("cannot resolve the module directory '%s': %w", b.cfg.ResolveDir, err)
	}

	sourcemap := api.SourceMapNone
	if b.cfg.SourceMaps {
		sourcemap = api.SourceMapLinked
	}

	return api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   GenerateEntry(req),
			ResolveDir: resolveDir,
			Sourcefile: req.Name + ".entry.js",
			Loader:     api.LoaderJS,
		},
		Bundle:            true,
		Write:             write,
		Outfile:           filepath.Join(b.cfg.OutputDir, req.Name+".js"),
		Platform:          api.PlatformBrowser,
		Format:            api.FormatIIFE,
		Target:            target,
		MinifyWhitespace:  b.cfg.Minify,
		MinifyIdentifiers: b.cfg.Minify,
		MinifySyntax:      b.cfg.Minify,
		Sourcemap:         sourcemap,
		External:          b.cfg.External,
		Define:            b.cfg.Define,
		LogLevel:          api.LogLevelSilent,
	}, nil
}

// buildError joins every bundler message into one error. The failure is
// terminal for the invocation: callers propagate it without retrying.
func buildError(name string, msgs []api.Message) error {
	errs := make([]error, len(msgs))
	for i, msg := range msgs {
		if msg.Location != nil {
			errs[i] = fmt.Errorf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
		} else {
			errs[i] = fmt.Errorf("%s", msg.Text)
		}
	}
	return fmt.Errorf("bundle %q failed: %w", name, errors.Join(errs...))
}

func messageTexts(msgs []api.Message) []string {
	if len(msgs) == 0 {
		return nil
	}
	texts := make([]string, len(msgs))
	for i, msg := range msgs {
		texts[i] = msg.Text
	}
	return texts
}

func targetFor(name string) (api.Target, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return api.DefaultTarget, nil
	case "es5":
		return api.ES5, nil
	case "es6", "es2015":
		return api.ES2015, nil
	case "es2016":
		return api.ES2016, nil
	case "es2017":
		return api.ES2017, nil
	case "es2018":
		return api.ES2018, nil
	case "es2019":
		return api.ES2019, nil
	case "es2020":
		return api.ES2020, nil
	case "es2021":
		return api.ES2021, nil
	case "es2022":
		return api.ES2022, nil
	case "esnext":
		return api.ESNext, nil
	default:
		return 0, fmt.Errorf("unknown JS target %q", name)
	}
}
