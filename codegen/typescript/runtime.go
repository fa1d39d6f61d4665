package typescript

import (
	_ "embed"
	"strings"
)

// runtimeSource holds the TypeScript runtime, split into regions:
//
//	//#region name [deps...]
//	...
//	//#endregion
//
// The core region is always emitted; every other region only when the
// generated code refers to its name.
//
//go:embed runtime.ts
var runtimeSource string

type region struct {
	name string
	deps []string
	body string
}

var regions = parseRegions(runtimeSource)

func parseRegions(src string) []region {
	var out []region
	var cur *region
	var body strings.Builder
	for _, line := range strings.Split(src, "\n") {
		switch {
		case strings.HasPrefix(line, "//#region "):
			fields := strings.Fields(strings.TrimPrefix(line, "//#region "))
			cur = &region{name: fields[0], deps: fields[1:]}
			body.Reset()
		case strings.HasPrefix(line, "//#endregion"):
			if cur != nil {
				cur.body = strings.TrimRight(body.String(), "\n")
				out = append(out, *cur)
				cur = nil
			}
		case cur != nil:
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	return out
}

// prelude renders the core region plus the regions named in used and
// everything they depend on, in source order.
func prelude(used map[string]bool) string {
	byName := make(map[string]region, len(regions))
	for _, r := range regions {
		byName[r.name] = r
	}
	want := map[string]bool{"core": true}
	var add func(name string)
	add = func(name string) {
		r, ok := byName[name]
		if !ok || want[name] {
			return
		}
		want[name] = true
		for _, d := range r.deps {
			add(d)
		}
	}
	for name := range used {
		add(name)
	}

	parts := make([]string, 0, len(want))
	for _, r := range regions {
		if want[r.name] {
			parts = append(parts, r.body)
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// helpers returns the names of the optional regions, in source order.
func helpers() []string {
	var out []string
	for _, r := range regions {
		if r.name != "core" {
			out = append(out, r.name)
		}
	}
	return out
}
