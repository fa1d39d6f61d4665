package transport

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/wippyai/bindgen/errors"
)

// rawCodec passes payloads through gRPC untouched.
type rawCodec struct{}

func (rawCodec) Name() string { return "bindgen" }

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case *[]byte:
		return *b, nil
	}
	return nil, fmt.Errorf("bindgen codec: cannot marshal %T", v)
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	p, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("bindgen codec: cannot unmarshal into %T", v)
	}
	*p = append((*p)[:0], data...)
	return nil
}

var deliveryKey = strings.ToLower(DeliveryHeader)

// GRPCEndpoint carries direct calls as unary gRPC calls to the method
// "/<namespace>/<function>". Server failures arrive as status errors.
type GRPCEndpoint struct {
	conn grpc.ClientConnInterface
}

// NewGRPCEndpoint uses an existing connection.
func NewGRPCEndpoint(conn grpc.ClientConnInterface) *GRPCEndpoint {
	return &GRPCEndpoint{conn: conn}
}

// DialGRPC connects to target without transport security unless opts
// configure it.
func DialGRPC(target string, opts ...grpc.DialOption) (*GRPCEndpoint, *grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidInput, err, "grpc dial "+target)
	}
	return NewGRPCEndpoint(conn), conn, nil
}

func (e *GRPCEndpoint) Call(ctx context.Context, path string, payload []byte) ([]byte, error) {
	var resp []byte
	if err := e.conn.Invoke(ctx, "/"+path, payload, &resp, grpc.ForceCodec(rawCodec{})); err != nil {
		return nil, err
	}
	if resp == nil {
		resp = []byte{}
	}
	return resp, nil
}

// Send returns once the server has accepted the request; the handler runs
// after the empty acknowledgement is sent.
func (e *GRPCEndpoint) Send(ctx context.Context, path string, payload []byte) error {
	ctx = metadata.AppendToOutgoingContext(ctx, deliveryKey, fireAndForget)
	var ack []byte
	return e.conn.Invoke(ctx, "/"+path, payload, &ack, grpc.ForceCodec(rawCodec{}))
}

// NewGRPCServer returns a server answering every method with ep. It
// registers no services; all calls reach ep through the unknown service
// handler.
func NewGRPCServer(ep Endpoint, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts,
		grpc.ForceServerCodec(rawCodec{}),
		grpc.UnknownServiceHandler(grpcHandler(ep)),
	)
	return grpc.NewServer(opts...)
}

func grpcHandler(ep Endpoint) grpc.StreamHandler {
	return func(_ any, stream grpc.ServerStream) error {
		method, ok := grpc.MethodFromServerStream(stream)
		if !ok {
			return status.Error(codes.Internal, "no method in stream")
		}
		path := strings.TrimPrefix(method, "/")
		var payload []byte
		if err := stream.RecvMsg(&payload); err != nil {
			return err
		}

		ctx := stream.Context()
		if md, ok := metadata.FromIncomingContext(ctx); ok && slices.Contains(md.Get(deliveryKey), fireAndForget) {
			if err := ep.Send(ctx, path, payload); err != nil {
				return grpcError(path, err)
			}
			return stream.SendMsg([]byte{})
		}

		out, err := ep.Call(ctx, path, payload)
		if err != nil {
			return grpcError(path, err)
		}
		return stream.SendMsg(out)
	}
}

func grpcError(path string, err error) error {
	Logger().Debug("grpc call failed", zap.String("path", path), zap.Error(err))
	if IsNoRoute(err) {
		return status.Error(codes.Unimplemented, err.Error())
	}
	return status.Error(codes.Unknown, err.Error())
}
