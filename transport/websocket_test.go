package transport

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/bindgen/errors"
)

func dialWS(t *testing.T, ep Endpoint, opts ...WebSocketOption) *WebSocketEndpoint {
	t.Helper()
	srv := httptest.NewServer(NewWebSocketHandler(ep, opts...))
	t.Cleanup(srv.Close)
	client, err := DialWebSocket(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestFrame_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		for _, f := range []frame{
			{kind: frameCall, id: 1, path: "ns/f", payload: []byte("args")},
			{kind: frameNotify, path: "ns/g"},
			{kind: frameResponse, id: 1 << 40, payload: []byte(strings.Repeat("r", 4096))},
			{kind: frameError, id: 3, payload: []byte("boom")},
		} {
			data, err := encodeFrame(f, compress)
			require.NoError(t, err)
			if compress {
				require.Equal(t, byte(1), data[0])
			} else {
				require.Equal(t, byte(0), data[0])
			}
			got, err := decodeFrame(data)
			require.NoError(t, err)
			require.Equal(t, f.kind, got.kind)
			require.Equal(t, f.id, got.id)
			require.Equal(t, f.path, got.path)
			require.Equal(t, string(f.payload), string(got.payload))
		}
	}
}

func TestFrame_Malformed(t *testing.T) {
	_, err := decodeFrame(nil)
	require.ErrorIs(t, err, &errors.Error{Kind: errors.KindTruncatedInput})

	_, err = decodeFrame([]byte{7, 1, 0, 0})
	require.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidData})

	data, err := encodeFrame(frame{kind: frameResponse, id: 1}, false)
	require.NoError(t, err)
	data[1] = 9
	_, err = decodeFrame(data)
	require.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidTag})

	_, err = decodeFrame(append(data[:len(data):len(data)], 0))
	require.Error(t, err)
}

func TestWebSocket_Shop(t *testing.T) {
	sh := newShop(t)
	exerciseDirect(t, sh, dialWS(t, sh.mux))
}

func TestWebSocket_CompressedShop(t *testing.T) {
	sh := newShop(t)
	exerciseDirect(t, sh, dialWS(t, sh.mux, WithCompression()))
}

func TestWebSocket_ConcurrentCalls(t *testing.T) {
	m := NewMux()
	m.Handle("ns/echo", func(_ context.Context, p []byte) ([]byte, error) { return p, nil })
	ws := dialWS(t, m)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			want := fmt.Sprintf("msg-%d", i)
			out, err := ws.Call(context.Background(), "ns/echo", []byte(want))
			if err == nil && string(out) != want {
				err = fmt.Errorf("got %q, want %q", out, want)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestWebSocket_Errors(t *testing.T) {
	m := NewMux()
	m.Handle("ns/fail", func(context.Context, []byte) ([]byte, error) {
		return nil, fmt.Errorf("boom")
	})
	ws := dialWS(t, m)

	_, err := ws.Call(context.Background(), "ns/fail", nil)
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	require.Equal(t, "ns/fail", re.Path)
	require.Equal(t, "boom", re.Message)

	_, err = ws.Call(context.Background(), "ns/missing", nil)
	require.ErrorAs(t, err, &re)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ws.Call(ctx, "ns/fail", nil)
	require.Error(t, err)

	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close())
	_, err = ws.Call(context.Background(), "ns/fail", nil)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, ws.Send(context.Background(), "ns/fail", nil), ErrClosed)
}
