package testbed

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wippyai/bindgen/codegen"
	_ "github.com/wippyai/bindgen/codegen/golang"
	"github.com/wippyai/bindgen/typemap"
)

const clientTest = `package shoptest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/wippyai/bindgen/testbed"
	"github.com/wippyai/bindgen/transcoder"
	"github.com/wippyai/bindgen/transport"
	"github.com/wippyai/bindgen/wire"

	"shoptest/shop"
)

func TestGeneratedClient(t *testing.T) {
	mux := transport.NewMux()
	host := transport.NewHost(testbed.Shop(), mux)
	implement := func(name string, fn transport.Func) {
		if err := host.Implement(testbed.ShopNamespace, name, fn); err != nil {
			t.Fatal(err)
		}
	}
	touched := make(chan map[string]any, 1)
	implement("add-item", func(_ context.Context, args map[string]any) (any, error) {
		item := args["item"].(map[string]any)
		if item["sku"] != "a-1" || item["qty"] != uint32(2) || args["count"] != uint64(3) || args["color"] != "dark-blue" {
			return nil, fmt.Errorf("unexpected args %v", args)
		}
		return nil, nil
	})
	implement("draw", func(_ context.Context, args map[string]any) (any, error) {
		shape := args["shape"].(transcoder.Variant)
		return map[string]any{"x": shape.Value, "y": float64(args["limit"].(uint32))}, nil
	})
	implement("touch", func(_ context.Context, args map[string]any) (any, error) {
		touched <- args
		return nil, nil
	})
	implement("check", func(context.Context, map[string]any) (any, error) {
		return transcoder.Variant{Case: "err", Value: "out of stock"}, nil
	})
	implement("size", func(context.Context, map[string]any) (any, error) {
		return uint64(1) << 40, nil
	})
	implement("clear", func(context.Context, map[string]any) (any, error) {
		return transcoder.OkOutcome(nil), nil
	})

	c := shop.NewClient(mux, mux)
	ctx := context.Background()

	if err := c.AddItem(ctx, shop.Item{Sku: "a-1", Qty: 2, Tags: []string{"x"}}, 3, shop.ColorDarkBlue); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	p, err := c.Draw(ctx, shop.ShapeCircle{Value: 1.5}, 7)
	if err != nil || p != (shop.Point{X: 1.5, Y: 7}) {
		t.Fatalf("Draw = %+v, %v", p, err)
	}
	if _, err := c.Draw(ctx, shop.ShapeEmpty{}, 1<<33); err == nil {
		t.Fatal("Draw with limit above u32 should fail")
	}
	if err := c.Touch(ctx, shop.File(4), shop.PermsRead|shop.PermsWrite); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if got := <-touched; got["f"] != wire.ResourceID(4) || len(got["p"].([]string)) != 2 {
		t.Fatalf("touched with %v", got)
	}
	_, err = c.Check(ctx, "a-1")
	var er *wire.ErrorResult[string]
	if !errors.As(err, &er) || er.Value != "out of stock" {
		t.Fatalf("Check: %v", err)
	}
	if _, err := c.Size(ctx); err == nil {
		t.Fatal("Size above u32 should fail")
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
}
`

// TestGeneratedGoClient compiles the Go client generated for Shop in a
// scratch module and runs it against a host served from the schema.
func TestGeneratedGoClient(t *testing.T) {
	if testing.Short() {
		t.Skip("builds a scratch module")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not on PATH")
	}
	root, err := filepath.Abs("..")
	if err != nil {
		t.Fatal(err)
	}

	files, err := codegen.Generate(Shop(), typemap.TargetGo)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	dir := t.TempDir()
	if err := files.Write(filepath.Join(dir, "shop")); err != nil {
		t.Fatal(err)
	}
	gomod := "module shoptest\n\ngo 1.25\n\nrequire github.com/wippyai/bindgen v0.0.0\n\nreplace github.com/wippyai/bindgen => " + root + "\n"
	writeFile(t, filepath.Join(dir, "go.mod"), gomod)
	writeFile(t, filepath.Join(dir, "client_test.go"), clientTest)
	if sum, err := os.ReadFile(filepath.Join(root, "go.sum")); err == nil {
		writeFile(t, filepath.Join(dir, "go.sum"), string(sum))
	}

	run := func(args ...string) (string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		cmd := exec.CommandContext(ctx, goBin, args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
		out, err := cmd.CombinedOutput()
		return string(out), err
	}
	if out, err := run("mod", "tidy"); err != nil {
		t.Skipf("dependencies unavailable: %v\n%s", err, out)
	}
	if out, err := run("test", "./..."); err != nil {
		t.Fatalf("generated client failed: %v\n%s", err, strings.TrimSpace(out))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
