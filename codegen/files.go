package codegen

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/bindgen/errors"
)

// File is one generated output file. Path is relative to the output
// directory.
type File struct {
	Path    string
	Content []byte
}

// Files is the ordered output of one generation run.
type Files []File

// Get returns the file at path.
func (fs Files) Get(path string) (File, bool) {
	for _, f := range fs {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}

// Paths lists the file paths in output order.
func (fs Files) Paths() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Path
	}
	return out
}

// Write stores every file below dir, creating directories as needed.
func (fs Files) Write(dir string) error {
	for _, f := range fs {
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "create output directory")
		}
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "write "+f.Path)
		}
		Logger().Debug("wrote file", zap.String("path", path), zap.Int("bytes", len(f.Content)))
	}
	return nil
}
