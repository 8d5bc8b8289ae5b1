package bundle

import (
	"fmt"
	"os"
	"time"

	"github.com/evanw/esbuild/pkg/api"
)

// Watch starts a rebuild-on-change loop for the request. esbuild owns the
// file watching; after every rebuild onRebuild is invoked with the outcome.
// Fingerprinting is not applied in watch mode: the bundle keeps its plain
// name so the dev server URL stays stable. The returned stop function
// disposes the watch context.
func (b *Bundler) Watch(req *Request, onRebuild func(*Result, error)) (func(), error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	opts, err := b.buildOptions(req, true)
	if err != nil {
		return nil, err
	}
	outPath := opts.Outfile
	opts.Plugins = append(opts.Plugins, api.Plugin{
		Name: "rebuild-notify",
		Setup: func(pb api.PluginBuild) {
			start := time.Now()
			pb.OnStart(func() (api.OnStartResult, error) {
				start = time.Now()
				return api.OnStartResult{}, nil
			})
			pb.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					onRebuild(nil, buildError(req.Name, result.Errors))
					return api.OnEndResult{}, nil
				}
				res := &Result{
					Name:       req.Name,
					OutputPath: outPath,
					Duration:   time.Since(start),
					Warnings:   messageTexts(result.Warnings),
				}
				if b.cfg.AppendInitSnippet {
					if err := AppendInitSnippet(outPath); err != nil {
						onRebuild(nil, err)
						return api.OnEndResult{}, nil
					}
				}
				if info, err := os.Stat(outPath); err == nil {
					res.Size = info.Size()
				}
				onRebuild(res, nil)
				return api.OnEndResult{}, nil
			})
		},
	})

	ctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, buildError(req.Name, ctxErr.Errors)
	}
	if err := ctx.Watch(api.WatchOptions{}); err != nil {
		ctx.Dispose()
		return nil, fmt.Errorf("failed to start watch mode: %w", err)
	}
	return ctx.Dispose, nil
}
