package testbed

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/wippyai/bindgen/resource"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/transcoder"
	"github.com/wippyai/bindgen/transport"
	"github.com/wippyai/bindgen/wire"
)

type touch struct {
	file  string
	perms []string
}

// ShopHost implements the Shop functions. Files passed to touch are
// resolved through a resource table.
type ShopHost struct {
	files   *resource.Table
	cart    map[string]uint32
	touches chan touch
	mu      sync.Mutex
}

func NewShopHost() *ShopHost {
	return &ShopHost{
		files:   resource.NewTable(),
		cart:    make(map[string]uint32),
		touches: make(chan touch, 16),
	}
}

func (h *ShopHost) Namespace() string {
	return ShopNamespace
}

// Serve registers every Shop function on a new mux.
func (h *ShopHost) Serve(t *testing.T) *transport.Mux {
	t.Helper()
	s := Shop()
	mux := transport.NewMux()
	host := transport.NewHost(s, mux)
	touchFn, _ := s.Function(ShopNamespace, "touch")
	fileType := touchFn.Params[0].Type.(schema.Handle)

	funcs := map[string]transport.Func{
		"add-item": func(_ context.Context, args map[string]any) (any, error) {
			item := args["item"].(map[string]any)
			h.mu.Lock()
			defer h.mu.Unlock()
			h.cart[item["sku"].(string)] += item["qty"].(uint32) * uint32(args["count"].(uint64))
			return nil, nil
		},
		"draw": func(_ context.Context, args map[string]any) (any, error) {
			shape := args["shape"].(transcoder.Variant)
			switch shape.Case {
			case "circle":
				r := shape.Value.(float64)
				return map[string]any{"x": r, "y": float64(args["limit"].(uint32))}, nil
			case "square":
				return shape.Value, nil
			}
			return nil, fmt.Errorf("nothing to draw")
		},
		"touch": func(_ context.Context, args map[string]any) (any, error) {
			v, err := h.files.Resolve(fileType, args["f"].(wire.ResourceID))
			if err != nil {
				return nil, err
			}
			h.touches <- touch{file: v.(string), perms: args["p"].([]string)}
			return nil, nil
		},
		"check": func(_ context.Context, args map[string]any) (any, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			sku := args["sku"].(string)
			if q, ok := h.cart[sku]; ok {
				return transcoder.Variant{Case: "ok", Value: uint64(q)}, nil
			}
			return transcoder.Variant{Case: "err", Value: "no such item: " + sku}, nil
		},
		"size": func(context.Context, map[string]any) (any, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			var n uint64
			for _, q := range h.cart {
				n += uint64(q)
			}
			return n, nil
		},
		"clear": func(context.Context, map[string]any) (any, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			if len(h.cart) == 0 {
				return transcoder.ErrOutcome("cart is empty"), nil
			}
			h.cart = make(map[string]uint32)
			return transcoder.OkOutcome(nil), nil
		},
	}
	for name, fn := range funcs {
		if err := host.Implement(ShopNamespace, name, fn); err != nil {
			t.Fatalf("implement %s: %v", name, err)
		}
	}
	return mux
}
