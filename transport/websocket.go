package transport

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/andybalholm/brotli"
	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/wire"
)

// ErrClosed is returned by calls on a closed WebSocketEndpoint.
var ErrClosed = stderrors.New("transport: connection closed")

// RemoteError carries a failure reported by the other side of a
// WebSocket connection.
type RemoteError struct {
	Path    string
	Message string
}

func (e *RemoteError) Error() string { return e.Path + ": " + e.Message }

type frameKind uint8

const (
	frameCall frameKind = iota + 1
	frameResponse
	frameError
	frameNotify
)

// frame is one WebSocket binary message. On the wire it is a compression
// byte (0 none, 1 brotli) followed by the wire encoding of kind, id, then
// path and payload for requests or body for replies.
type frame struct {
	path    string
	payload []byte
	id      uint64
	kind    frameKind
}

func encodeFrame(f frame, compress bool) ([]byte, error) {
	w := wire.NewWriter(len(f.path) + len(f.payload) + 16)
	w.WriteU8(uint8(f.kind))
	w.WriteU64(f.id)
	if f.kind == frameCall || f.kind == frameNotify {
		w.WriteString(f.path)
	}
	w.WriteBytes(f.payload)
	if err := w.Err(); err != nil {
		return nil, err
	}
	if !compress {
		return append([]byte{0}, w.Bytes()...), nil
	}
	var buf bytes.Buffer
	buf.WriteByte(1)
	bw := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := bw.Write(w.Bytes()); err != nil {
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFrame(data []byte) (frame, error) {
	if len(data) == 0 {
		return frame{}, errors.TruncatedInput([]string{"frame"}, 1, 0)
	}
	body := data[1:]
	switch data[0] {
	case 0:
	case 1:
		var err error
		body, err = io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(body)), maxMessage))
		if err != nil {
			return frame{}, errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "decompress frame")
		}
	default:
		return frame{}, errors.InvalidData(errors.PhaseTransport, []string{"frame"}, "unknown compression")
	}

	r := wire.NewReader(body)
	f := frame{kind: frameKind(r.ReadU8()), id: r.ReadU64()}
	if f.kind == frameCall || f.kind == frameNotify {
		f.path = r.ReadString()
	}
	f.payload = r.ReadBytes()
	if err := r.Finish(); err != nil {
		return frame{}, err
	}
	if f.kind < frameCall || f.kind > frameNotify {
		return frame{}, errors.InvalidTag([]string{"frame"}, uint64(f.kind), int(frameNotify))
	}
	return f, nil
}

type wsOptions struct {
	header   http.Header
	client   *http.Client
	compress bool
}

// WebSocketOption configures WebSocket clients and handlers.
type WebSocketOption func(*wsOptions)

// WithCompression brotli-compresses every frame written. Readers accept
// both forms.
func WithCompression() WebSocketOption {
	return func(o *wsOptions) { o.compress = true }
}

// WithDialHeader adds a header to the opening handshake.
func WithDialHeader(key, value string) WebSocketOption {
	return func(o *wsOptions) { o.header.Add(key, value) }
}

// WithDialClient sets the HTTP client used for the handshake.
func WithDialClient(c *http.Client) WebSocketOption {
	return func(o *wsOptions) { o.client = c }
}

func newWSOptions(opts []WebSocketOption) wsOptions {
	o := wsOptions{header: make(http.Header)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WebSocketEndpoint carries direct calls over one WebSocket connection.
// Calls are matched to replies by id, so any number may be in flight.
type WebSocketEndpoint struct {
	conn     *websocket.Conn
	done     chan struct{}
	readErr  error
	pending  sync.Map // uint64 -> chan frame
	nextID   atomic.Uint64
	closed   atomic.Bool
	writeMu  sync.Mutex
	compress bool
}

// DialWebSocket opens a connection to url ("ws://" or "wss://").
func DialWebSocket(ctx context.Context, url string, opts ...WebSocketOption) (*WebSocketEndpoint, error) {
	o := newWSOptions(opts)
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPClient: o.client, HTTPHeader: o.header})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidInput, err, "websocket dial "+url)
	}
	conn.SetReadLimit(maxMessage)
	e := &WebSocketEndpoint{conn: conn, done: make(chan struct{}), compress: o.compress}
	go e.readLoop()
	return e, nil
}

func (e *WebSocketEndpoint) Call(ctx context.Context, path string, payload []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	id := e.nextID.Add(1)
	ch := make(chan frame, 1)
	e.pending.Store(id, ch)
	defer e.pending.Delete(id)

	if err := e.write(ctx, frame{kind: frameCall, id: id, path: path, payload: payload}); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case f := <-ch:
		if f.kind == frameError {
			return nil, &RemoteError{Path: path, Message: string(f.payload)}
		}
		return f.payload, nil
	case <-e.done:
		if e.readErr != nil {
			return nil, e.readErr
		}
		return nil, ErrClosed
	}
}

// Send returns once the frame is written to the connection.
func (e *WebSocketEndpoint) Send(ctx context.Context, path string, payload []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.write(ctx, frame{kind: frameNotify, path: path, payload: payload})
}

func (e *WebSocketEndpoint) write(ctx context.Context, f frame) error {
	data, err := encodeFrame(f, e.compress)
	if err != nil {
		return err
	}
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.conn.Write(ctx, websocket.MessageBinary, data)
}

func (e *WebSocketEndpoint) readLoop() {
	defer close(e.done)
	for {
		_, data, err := e.conn.Read(context.Background())
		if err != nil {
			if !e.closed.Load() {
				e.readErr = err
			}
			return
		}
		f, err := decodeFrame(data)
		if err != nil {
			Logger().Warn("dropping malformed websocket frame", zap.Error(err))
			continue
		}
		if ch, ok := e.pending.Load(f.id); ok {
			ch.(chan frame) <- f
		}
	}
}

// Close closes the connection. Calls in flight fail with ErrClosed.
func (e *WebSocketEndpoint) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	return e.conn.Close(websocket.StatusNormalClosure, "")
}

// NewWebSocketHandler accepts WebSocket connections and serves the direct
// commands of ep on them.
func NewWebSocketHandler(ep Endpoint, opts ...WebSocketOption) http.Handler {
	o := newWSOptions(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			Logger().Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()
		conn.SetReadLimit(maxMessage)
		serveWebSocket(r.Context(), conn, ep, o.compress)
	})
}

func serveWebSocket(ctx context.Context, conn *websocket.Conn, ep Endpoint, compress bool) {
	var writeMu sync.Mutex
	reply := func(f frame) {
		data, err := encodeFrame(f, compress)
		if err != nil {
			Logger().Warn("encode websocket reply", zap.Error(err))
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.Write(ctx, websocket.MessageBinary, data); err != nil {
			debugf("websocket write: %v", err)
		}
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		f, err := decodeFrame(data)
		if err != nil {
			Logger().Warn("dropping malformed websocket frame", zap.Error(err))
			continue
		}
		switch f.kind {
		case frameNotify:
			if err := ep.Send(ctx, f.path, f.payload); err != nil {
				Logger().Warn("fire-and-forget request rejected", zap.String("path", f.path), zap.Error(err))
			}
		case frameCall:
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, err := ep.Call(ctx, f.path, f.payload)
				if err != nil {
					reply(frame{kind: frameError, id: f.id, payload: []byte(err.Error())})
					return
				}
				reply(frame{kind: frameResponse, id: f.id, payload: out})
			}()
		}
	}
}
