package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified name of the Catalog service. Messages
// are protobuf well-known types, so no generated code is needed.
const ServiceName = "moviedb.v1.Catalog"

const (
	methodGetMovie         = "/" + ServiceName + "/GetMovie"
	methodCheckMovieExists = "/" + ServiceName + "/CheckMovieExists"
	methodGetActor         = "/" + ServiceName + "/GetActor"
	methodListMovieActors  = "/" + ServiceName + "/ListMovieActors"
)

// CatalogServer is the server API for the Catalog service.
type CatalogServer interface {
	GetMovie(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	CheckMovieExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	GetActor(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListMovieActors(context.Context, *wrapperspb.Int64Value) (*structpb.ListValue, error)
}

// RegisterCatalogServer registers srv on s.
func RegisterCatalogServer(s grpclib.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "GetMovie", Handler: unaryHandler(methodGetMovie, CatalogServer.GetMovie)},
		{MethodName: "CheckMovieExists", Handler: unaryHandler(methodCheckMovieExists, CatalogServer.CheckMovieExists)},
		{MethodName: "GetActor", Handler: unaryHandler(methodGetActor, CatalogServer.GetActor)},
		{MethodName: "ListMovieActors", Handler: unaryHandler(methodListMovieActors, CatalogServer.ListMovieActors)},
	},
	Streams: []grpclib.StreamDesc{},
}

// unaryHandler adapts a CatalogServer method taking an id to the shape
// grpc expects in a MethodDesc.
func unaryHandler[Resp any](fullMethod string, call func(CatalogServer, context.Context, *wrapperspb.Int64Value) (Resp, error)) func(any, context.Context, func(any) error, grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.Int64Value)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServer), ctx, req.(*wrapperspb.Int64Value))
		}
		return interceptor(ctx, in, info, handler)
	}
}
