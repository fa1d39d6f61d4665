// Package transport is the runtime generated clients call through.
//
// Structured calls go to an Invoker with the command "namespace|function"
// and one encoded value per parameter. Direct calls go to an Endpoint with
// the path "namespace/function" and one payload holding every parameter in
// declaration order. Endpoint.Call waits for the response; Endpoint.Send
// returns once the transport has taken the request.
//
// Implementations:
//
//	Mux               in process; also the handler behind every server below
//	Host              serves schema functions on a Mux through a transcoder
//	HTTPEndpoint      POST <base>/<path>, served by NewHTTPHandler
//	JSONRPCInvoker    JSON-RPC 2.0 over HTTP, served by NewJSONRPCHandler
//	GRPCEndpoint      unary gRPC method /<path>, served by NewGRPCServer
//	WebSocketEndpoint multiplexed frames, served by NewWebSocketHandler
//	WasmEndpoint      exports of an in-process WebAssembly guest
//
// Errors from a transport are returned to the caller unchanged.
package transport
