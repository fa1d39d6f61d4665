package bindgen

import (
	"github.com/wippyai/bindgen/codegen"
	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"

	// built-in targets
	_ "github.com/wippyai/bindgen/codegen/golang"
	_ "github.com/wippyai/bindgen/codegen/markdown"
	_ "github.com/wippyai/bindgen/codegen/typescript"
)

// LoadSchema reads a YAML or JSON schema document.
func LoadSchema(path string) (*schema.Schema, error) {
	return schema.LoadDocument(path)
}

// Generate emits s for every target in order. Output paths must not
// collide between targets.
func Generate(s *schema.Schema, targets []string, opts ...codegen.Option) (codegen.Files, error) {
	if len(targets) == 0 {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "no target given")
	}
	var out codegen.Files
	seen := make(map[string]string)
	for _, target := range targets {
		files, err := codegen.Generate(s, target, opts...)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if prev, ok := seen[f.Path]; ok {
				return nil, errors.NameCollision(target, "output file", f.Path+" (also written by "+prev+")")
			}
			seen[f.Path] = target
		}
		out = append(out, files...)
	}
	return out, nil
}

// WriteFiles writes generated files below dir.
func WriteFiles(dir string, files codegen.Files) error {
	return files.Write(dir)
}
