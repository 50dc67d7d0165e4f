package grpc

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/TomasB/clientinfo/internal/clientinfo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "clientinfo.v1.ClientInfoService"
	// ResolveMethod is the full method name of Resolve.
	ResolveMethod = "/" + ServiceName + "/Resolve"
)

// ClientInfoServer is the server API for the client info service.
type ClientInfoServer interface {
	// Resolve takes the viewport size ("<width>x<height>") and returns the
	// client info as a Struct keyed like the JSON API.
	Resolve(ctx context.Context, screen *wrapperspb.StringValue) (*structpb.Struct, error)
}

// Resolver produces client info for a request.
type Resolver interface {
	GetClientInfo(ctx context.Context, req *http.Request, opts clientinfo.Options) (clientinfo.Info, error)
}

// Handler implements ClientInfoServer. Incoming metadata stands in for the
// HTTP headers and the peer address for the connection address.
type Handler struct {
	resolver Resolver
}

// NewHandler creates a new gRPC handler with the given Resolver.
func NewHandler(resolver Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Register adds the service to s.
func Register(s grpc.ServiceRegistrar, srv ClientInfoServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Resolve implements ClientInfoServer.
func (h *Handler) Resolve(ctx context.Context, screen *wrapperspb.StringValue) (*structpb.Struct, error) {
	req := requestFromContext(ctx)

	info, err := h.resolver.GetClientInfo(ctx, req, clientinfo.Options{Screen: screen.GetValue()})
	if err != nil {
		slog.Error("client info lookup failed", "error", err)
		return nil, status.Error(codes.Unavailable, "lookup failed")
	}

	out, err := structpb.NewStruct(infoFields(info))
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

// requestFromContext builds the request view the resolvers read.
func requestFromContext(ctx context.Context) *http.Request {
	req := &http.Request{Header: http.Header{}}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for key, values := range md {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		req.RemoteAddr = p.Addr.String()
	}
	return req.WithContext(ctx)
}

func infoFields(info clientinfo.Info) map[string]any {
	fields := map[string]any{}
	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	set("userAgent", info.UserAgent)
	set("browser", info.Browser)
	set("os", info.OS)
	set("ip", info.IP)
	set("country", info.Country)
	set("device", string(info.Device))
	return fields
}
