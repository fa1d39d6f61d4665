package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/bindgen/errors"
)

const contentType = "application/octet-stream"

type httpOptions struct {
	client *http.Client
	header http.Header
}

// HTTPOption configures the HTTP based transports.
type HTTPOption func(*httpOptions)

// WithHTTPClient sets the client requests are made with.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(o *httpOptions) { o.client = c }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(o *httpOptions) { o.header.Add(key, value) }
}

func newHTTPOptions(opts []HTTPOption) httpOptions {
	o := httpOptions{
		client: &http.Client{Timeout: 30 * time.Second},
		header: make(http.Header),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// StatusError is returned when an HTTP server answers with a non-2xx status.
type StatusError struct {
	Path    string
	Message string
	Code    int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Path, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Path, e.Code, e.Message)
}

// HTTPEndpoint carries direct calls as POST requests to <base>/<path>.
type HTTPEndpoint struct {
	opts httpOptions
	base string
}

func NewHTTPEndpoint(base string, opts ...HTTPOption) *HTTPEndpoint {
	return &HTTPEndpoint{base: strings.TrimRight(base, "/"), opts: newHTTPOptions(opts)}
}

func (e *HTTPEndpoint) Call(ctx context.Context, path string, payload []byte) ([]byte, error) {
	resp, err := e.post(ctx, path, payload, false)
	if err != nil {
		return nil, err
	}
	defer cleanlyCloseBody(resp.Body)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMessage))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Send posts payload marked fire-and-forget; the server acknowledges with
// 202 Accepted before the handler runs.
func (e *HTTPEndpoint) Send(ctx context.Context, path string, payload []byte) error {
	resp, err := e.post(ctx, path, payload, true)
	if err != nil {
		return err
	}
	return cleanlyCloseBody(resp.Body)
}

func (e *HTTPEndpoint) post(ctx context.Context, path string, payload []byte, oneWay bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/"+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidInput, err, "create request")
	}
	for k, v := range e.opts.header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", contentType)
	if oneWay {
		req.Header.Set(DeliveryHeader, fireAndForget)
	}
	resp, err := e.opts.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		cleanlyCloseBody(resp.Body)
		return nil, &StatusError{Path: path, Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}

// cleanlyCloseBody drains the body so the connection can be reused.
func cleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}

// NewHTTPHandler serves the direct commands of ep: POST /<namespace>/<function>
// with the payload as body. Mount it with http.StripPrefix under a base path.
func NewHTTPHandler(ep Endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, "/")
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxMessage))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if r.Header.Get(DeliveryHeader) == fireAndForget {
			if err := ep.Send(r.Context(), path, payload); err != nil {
				httpError(w, path, err)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			return
		}

		out, err := ep.Call(r.Context(), path, payload)
		if err != nil {
			httpError(w, path, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(out)
	})
}

func httpError(w http.ResponseWriter, path string, err error) {
	code := http.StatusInternalServerError
	if IsNoRoute(err) {
		code = http.StatusNotFound
	}
	Logger().Debug("http request failed", zap.String("path", path), zap.Error(err))
	http.Error(w, err.Error(), code)
}
