package transport

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/testbed"
	"github.com/wippyai/bindgen/transcoder"
	"github.com/wippyai/bindgen/wire"
)

// shop is an in-memory implementation of the testbed Shop schema together
// with the client-side encoding a generated stub would perform.
type shop struct {
	schema  *schema.Schema
	tc      *transcoder.Transcoder
	mux     *Mux
	touched chan map[string]any

	mu  sync.Mutex
	qty map[string]uint32
}

func newShop(t *testing.T) *shop {
	t.Helper()
	s := testbed.Shop()
	sh := &shop{
		schema:  s,
		tc:      transcoder.New(s),
		mux:     NewMux(),
		touched: make(chan map[string]any, 8),
		qty:     make(map[string]uint32),
	}
	host := NewHost(s, sh.mux)
	impl := map[string]Func{
		"add-item": func(_ context.Context, args map[string]any) (any, error) {
			item := args["item"].(map[string]any)
			sh.mu.Lock()
			defer sh.mu.Unlock()
			sh.qty[item["sku"].(string)] += item["qty"].(uint32) * uint32(args["count"].(uint64))
			return nil, nil
		},
		"draw": func(_ context.Context, args map[string]any) (any, error) {
			shape := args["shape"].(transcoder.Variant)
			limit := float64(args["limit"].(uint32))
			switch shape.Case {
			case "circle":
				return map[string]any{"x": shape.Value.(float64), "y": limit}, nil
			case "square":
				return shape.Value, nil
			}
			return nil, fmt.Errorf("cannot draw %s", shape.Case)
		},
		"touch": func(_ context.Context, args map[string]any) (any, error) {
			sh.touched <- args
			return nil, nil
		},
		"check": func(_ context.Context, args map[string]any) (any, error) {
			sku := args["sku"].(string)
			sh.mu.Lock()
			defer sh.mu.Unlock()
			if q, ok := sh.qty[sku]; ok {
				return transcoder.Variant{Case: "ok", Value: uint64(q)}, nil
			}
			return transcoder.Variant{Case: "err", Value: "unknown sku " + sku}, nil
		},
		"size": func(context.Context, map[string]any) (any, error) {
			sh.mu.Lock()
			defer sh.mu.Unlock()
			return uint64(len(sh.qty)), nil
		},
		"clear": func(context.Context, map[string]any) (any, error) {
			sh.mu.Lock()
			defer sh.mu.Unlock()
			sh.qty = make(map[string]uint32)
			return transcoder.OkOutcome(nil), nil
		},
	}
	for name, fn := range impl {
		require.NoError(t, host.Implement(testbed.ShopNamespace, name, fn))
	}
	return sh
}

func (sh *shop) fn(t *testing.T, name string) *schema.Function {
	t.Helper()
	f, ok := sh.schema.Function(testbed.ShopNamespace, name)
	require.True(t, ok, name)
	return f
}

// args encodes arguments the way a structured stub does.
func (sh *shop) args(t *testing.T, name string, values map[string]any) Args {
	t.Helper()
	out := Args{}
	for _, p := range sh.fn(t, name).Params {
		data, err := sh.tc.Encode(p.Type, values[p.Name])
		require.NoError(t, err)
		out[p.Name] = data
	}
	return out
}

// payload encodes arguments the way a direct stub does.
func (sh *shop) payload(t *testing.T, name string, values map[string]any) []byte {
	t.Helper()
	data, err := sh.tc.EncodeArgs(sh.fn(t, name), values)
	require.NoError(t, err)
	return data
}

func (sh *shop) result(t *testing.T, name string, data []byte) any {
	t.Helper()
	v, err := sh.tc.DecodeResult(sh.fn(t, name), data)
	require.NoError(t, err)
	return v
}

func (sh *shop) waitTouch(t *testing.T) map[string]any {
	t.Helper()
	select {
	case got := <-sh.touched:
		return got
	case <-time.After(5 * time.Second):
		t.Fatal("touch was not delivered")
		return nil
	}
}

// exerciseDirect drives the direct Shop functions through ep.
func exerciseDirect(t *testing.T, sh *shop, ep Endpoint) {
	t.Helper()
	ctx := context.Background()

	out, err := ep.Call(ctx, "shop/draw", sh.payload(t, "draw", map[string]any{
		"shape": transcoder.Variant{Case: "circle", Value: 1.5},
		"limit": uint32(3),
	}))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"x": 1.5, "y": 3.0}, sh.result(t, "draw", out))

	require.NoError(t, ep.Send(ctx, "shop/touch", sh.payload(t, "touch", map[string]any{
		"f": wire.ResourceID(9),
		"p": []string{"write"},
	})))
	got := sh.waitTouch(t)
	require.Equal(t, wire.ResourceID(9), got["f"])
	require.Equal(t, []string{"write"}, got["p"])

	_, err = ep.Call(ctx, "shop/draw", sh.payload(t, "draw", map[string]any{
		"shape": transcoder.Variant{Case: "empty"},
		"limit": uint32(0),
	}))
	require.ErrorContains(t, err, "cannot draw empty")

	_, err = ep.Call(ctx, "shop/missing", nil)
	require.Error(t, err)
}

// exerciseStructured drives the structured Shop functions through inv.
func exerciseStructured(t *testing.T, sh *shop, inv Invoker) {
	t.Helper()
	ctx := context.Background()

	out, err := inv.Invoke(ctx, "shop|add-item", sh.args(t, "add-item", map[string]any{
		"item":  map[string]any{"sku": "a-1", "qty": uint32(2), "tags": []string{"new"}},
		"count": uint64(3),
		"color": "dark-blue",
	}))
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = inv.Invoke(ctx, "shop|check", sh.args(t, "check", map[string]any{"sku": "a-1"}))
	require.NoError(t, err)
	require.Equal(t, transcoder.Variant{Case: "ok", Value: uint64(6)}, sh.result(t, "check", out))

	out, err = inv.Invoke(ctx, "shop|check", sh.args(t, "check", map[string]any{"sku": "zz"}))
	require.NoError(t, err)
	require.Equal(t, transcoder.Variant{Case: "err", Value: "unknown sku zz"}, sh.result(t, "check", out))

	out, err = inv.Invoke(ctx, "shop|size", Args{})
	require.NoError(t, err)
	require.Equal(t, uint64(1), sh.result(t, "size", out))

	_, err = inv.Invoke(ctx, "shop|missing", Args{})
	require.Error(t, err)
}
