package transport

import (
	"context"
	stderrors "errors"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
)

// Args carries the arguments of a structured call keyed by parameter name.
// Each value is the wire encoding of one argument.
type Args map[string][]byte

// Invoker carries structured calls. command has the form "namespace|function".
type Invoker interface {
	Invoke(ctx context.Context, command string, args Args) ([]byte, error)
}

// Endpoint carries direct calls. path has the form "namespace/function".
type Endpoint interface {
	// Call sends payload and waits for the response bytes.
	Call(ctx context.Context, path string, payload []byte) ([]byte, error)
	// Send returns once the transport has accepted payload. No response is
	// read.
	Send(ctx context.Context, path string, payload []byte) error
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, command string, args Args) ([]byte, error)

func (f InvokerFunc) Invoke(ctx context.Context, command string, args Args) ([]byte, error) {
	return f(ctx, command, args)
}

// Handler serves one direct command.
type Handler func(ctx context.Context, payload []byte) ([]byte, error)

// StructuredHandler serves one structured command.
type StructuredHandler func(ctx context.Context, args Args) ([]byte, error)

// DeliveryHeader names the header (HTTP) or metadata key (gRPC) marking a
// fire-and-forget request. Its value is schema.FireAndForget.String().
const DeliveryHeader = "Bindgen-Delivery"

var fireAndForget = schema.FireAndForget.String()

// maxMessage bounds request and response bodies read by the network
// transports.
const maxMessage = 64 << 20

var errNoRoute = &errors.Error{Kind: errors.KindNotFound}

// IsNoRoute reports whether err says no handler serves the command.
func IsNoRoute(err error) bool {
	return stderrors.Is(err, errNoRoute)
}

func noRoute(command string) error {
	return errors.NotFound(errors.PhaseTransport, "command", command)
}
