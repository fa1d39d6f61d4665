package transport

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/testbed"
	"github.com/wippyai/bindgen/transcoder"
)

func TestHost_Registers(t *testing.T) {
	sh := newShop(t)
	require.Equal(t, []string{
		"shop/draw", "shop/touch",
		"shop|add-item", "shop|check", "shop|clear", "shop|size",
	}, sh.mux.Commands())
}

func TestHost_Mux(t *testing.T) {
	sh := newShop(t)
	exerciseDirect(t, sh, sh.mux)
	exerciseStructured(t, sh, sh.mux)

	out, err := sh.mux.Invoke(context.Background(), "shop|clear", Args{})
	require.NoError(t, err)
	require.Equal(t, transcoder.OkOutcome(nil), sh.result(t, "clear", out))

	out, err = sh.mux.Invoke(context.Background(), "shop|size", Args{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), sh.result(t, "size", out))
}

func TestHost_SquareUsesStructPayload(t *testing.T) {
	sh := newShop(t)
	point := map[string]any{"x": -1.0, "y": 2.5}
	out, err := sh.mux.Call(context.Background(), "shop/draw", sh.payload(t, "draw", map[string]any{
		"shape": transcoder.Variant{Case: "square", Value: point},
		"limit": uint32(1),
	}))
	require.NoError(t, err)
	require.Equal(t, point, sh.result(t, "draw", out))
}

func TestHost_FireAndForgetReturnsNothing(t *testing.T) {
	sh := newShop(t)
	// Call on a fire-and-forget path still runs the handler synchronously.
	out, err := sh.mux.Call(context.Background(), "shop/touch", sh.payload(t, "touch", map[string]any{
		"f": uint32(1),
		"p": []string{},
	}))
	require.NoError(t, err)
	require.Nil(t, out)
	require.Equal(t, []string{}, sh.waitTouch(t)["p"])
}

func TestHost_UnknownFunction(t *testing.T) {
	h := NewHost(testbed.Shop(), NewMux())
	err := h.Implement(testbed.ShopNamespace, "chek", func(context.Context, map[string]any) (any, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, &errors.Error{Kind: errors.KindNotFound})
	require.ErrorContains(t, err, "did you mean `check` or `clear`?")
	require.Empty(t, h.Mux().Commands())
}

func TestHost_ArgumentErrors(t *testing.T) {
	sh := newShop(t)
	ctx := context.Background()

	_, err := sh.mux.Invoke(ctx, "shop|check", Args{})
	require.ErrorIs(t, err, &errors.Error{Kind: errors.KindFieldMissing})

	args := sh.args(t, "check", map[string]any{"sku": "a"})
	args["extra"] = []byte{0}
	_, err = sh.mux.Invoke(ctx, "shop|check", args)
	require.ErrorIs(t, err, &errors.Error{Kind: errors.KindFieldUnknown})

	_, err = sh.mux.Invoke(ctx, "shop|check", Args{"sku": {5, 'a'}})
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	require.Equal(t, errors.KindTruncatedInput, e.Kind)
	require.Equal(t, "shop.check", e.Subject)
	require.Equal(t, "sku", e.Path[0])

	// trailing bytes after the last direct argument
	payload := sh.payload(t, "draw", map[string]any{
		"shape": transcoder.Variant{Case: "empty"},
		"limit": uint32(0),
	})
	_, err = sh.mux.Call(ctx, "shop/draw", append(payload, 0))
	require.ErrorIs(t, err, &errors.Error{Kind: errors.KindTrailingPayload})
}
