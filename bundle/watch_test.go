package bundle

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_InitialBuild(t *testing.T) {
	dir := fixtureTree(t)
	cfg := fixtureConfig(dir)

	type outcome struct {
		res *Result
		err error
	}
	results := make(chan outcome, 4)
	stop, err := NewBundler(cfg).Watch(DefaultRequest(), func(res *Result, err error) {
		results <- outcome{res: res, err: err}
	})
	require.NoError(t, err)
	defer stop()

	// Starting the watcher performs an initial build.
	select {
	case got := <-results:
		require.NoError(t, got.err)
		assert.Equal(t, filepath.Join(cfg.OutputDir, "marko-browser.js"), got.res.OutputPath)
		assert.FileExists(t, got.res.OutputPath)
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for the initial watch build")
	}
}

func TestWatch_InvalidRequest(t *testing.T) {
	dir := fixtureTree(t)
	cfg := fixtureConfig(dir)

	_, err := NewBundler(cfg).Watch(&Request{Name: "marko-browser"}, func(*Result, error) {})
	require.Error(t, err)
}
