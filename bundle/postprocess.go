package bundle

import (
	"fmt"
	"os"
)

// InitSnippet is the module-loader initialization suffix. The bundled output
// does not self-initialize in the target environment: the snippet establishes
// the global namespace placeholder and tells the loader runtime that pending
// module registrations are complete.
const InitSnippet = "window.global = window.global || {};\n$rmod.pending().done();\n"

// AppendInitSnippet appends InitSnippet to the generated bundle file. The
// append is unconditional: running it twice duplicates the suffix, so it is
// meant to be applied exactly once per build.
func AppendInitSnippet(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open bundle '%s' for post-processing: %w", path, err)
	}
	if _, err := f.WriteString(InitSnippet); err != nil {
		f.Close()
		return fmt.Errorf("cannot append init snippet to '%s': %w", path, err)
	}
	return f.Close()
}
