package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	rpc "github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"

	"github.com/wippyai/bindgen/errors"
)

// JSONRPCMethod is the JSON-RPC 2.0 method structured calls are sent as.
const JSONRPCMethod = "Bindgen.Invoke"

// InvokeRequest is the params object of a JSON-RPC structured call. Args
// values travel base64 encoded.
type InvokeRequest struct {
	Args    Args   `json:"args"`
	Command string `json:"command"`
}

// InvokeReply is the result object of a JSON-RPC structured call.
type InvokeReply struct {
	Result []byte `json:"result"`
}

// JSONRPCInvoker carries structured calls as JSON-RPC 2.0 requests over
// HTTP. Failures reported by the server are returned as *json2.Error.
type JSONRPCInvoker struct {
	opts httpOptions
	url  string
}

func NewJSONRPCInvoker(url string, opts ...HTTPOption) *JSONRPCInvoker {
	return &JSONRPCInvoker{url: url, opts: newHTTPOptions(opts)}
}

func (c *JSONRPCInvoker) Invoke(ctx context.Context, command string, args Args) ([]byte, error) {
	body, err := json2.EncodeClientRequest(JSONRPCMethod, &InvokeRequest{Command: command, Args: args})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidInput, err, "encode request for "+command)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidInput, err, "create request")
	}
	for k, v := range c.opts.header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer cleanlyCloseBody(resp.Body)

	// the server answers failed calls with 400 and a JSON-RPC error object
	var reply InvokeReply
	if err := json2.DecodeClientResponse(io.LimitReader(resp.Body, maxMessage), &reply); err != nil {
		if _, ok := err.(*json2.Error); !ok && (resp.StatusCode < 200 || resp.StatusCode > 299) {
			return nil, &StatusError{Path: command, Code: resp.StatusCode}
		}
		return nil, err
	}
	if reply.Result == nil {
		reply.Result = []byte{}
	}
	return reply.Result, nil
}

// NewJSONRPCHandler serves the structured commands of inv as JSON-RPC 2.0
// over HTTP POST.
func NewJSONRPCHandler(inv Invoker) (http.Handler, error) {
	s := rpc.NewServer()
	s.RegisterCodec(json2.NewCodec(), "application/json")
	if err := s.RegisterService(&jsonrpcService{inv: inv}, strings.Split(JSONRPCMethod, ".")[0]); err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidInput, err, "register json-rpc service")
	}
	return s, nil
}

type jsonrpcService struct {
	inv Invoker
}

func (s *jsonrpcService) Invoke(r *http.Request, req *InvokeRequest, reply *InvokeReply) error {
	out, err := s.inv.Invoke(r.Context(), req.Command, req.Args)
	if err != nil {
		code := json2.E_SERVER
		if IsNoRoute(err) {
			code = json2.E_NO_METHOD
		}
		return &json2.Error{Code: code, Message: err.Error()}
	}
	reply.Result = out
	return nil
}
