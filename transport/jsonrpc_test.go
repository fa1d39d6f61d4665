package transport

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/require"
)

func newJSONRPCServer(t *testing.T, inv Invoker) *httptest.Server {
	t.Helper()
	h, err := NewJSONRPCHandler(inv)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestJSONRPC_Shop(t *testing.T) {
	sh := newShop(t)
	srv := newJSONRPCServer(t, sh.mux)
	exerciseStructured(t, sh, NewJSONRPCInvoker(srv.URL, WithHTTPClient(srv.Client())))
}

func TestJSONRPC_Errors(t *testing.T) {
	srv := newJSONRPCServer(t, InvokerFunc(func(_ context.Context, command string, args Args) ([]byte, error) {
		if command != "ns|f" {
			return nil, noRoute(command)
		}
		if _, ok := args["x"]; !ok {
			return nil, stderrors.New("x is required")
		}
		return args["x"], nil
	}))
	inv := NewJSONRPCInvoker(srv.URL)
	ctx := context.Background()

	out, err := inv.Invoke(ctx, "ns|f", Args{"x": {0xff, 0x00}})
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0x00}, out)

	// empty payloads survive the base64 round trip
	out, err = inv.Invoke(ctx, "ns|f", Args{"x": {}})
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)

	_, err = inv.Invoke(ctx, "ns|f", Args{})
	var rpcErr *json2.Error
	require.True(t, stderrors.As(err, &rpcErr))
	require.Equal(t, json2.E_SERVER, rpcErr.Code)
	require.Equal(t, "x is required", rpcErr.Message)

	_, err = inv.Invoke(ctx, "ns|g", Args{})
	require.True(t, stderrors.As(err, &rpcErr))
	require.Equal(t, json2.E_NO_METHOD, rpcErr.Code)
	require.Contains(t, rpcErr.Message, "ns|g")
}

func TestJSONRPC_NotJSONRPC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewJSONRPCInvoker(srv.URL).Invoke(context.Background(), "ns|f", nil)
	var se *StatusError
	require.True(t, stderrors.As(err, &se))
	require.Equal(t, http.StatusBadGateway, se.Code)
}

func TestJSONRPC_WireFormat(t *testing.T) {
	body, err := json2.EncodeClientRequest(JSONRPCMethod, &InvokeRequest{Command: "ns|f", Args: Args{"x": {1, 2}}})
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `"method":"Bindgen.Invoke"`), string(body))
	require.Contains(t, string(body), `"params":{"args":{"x":"AQI="},"command":"ns|f"}`)
}
