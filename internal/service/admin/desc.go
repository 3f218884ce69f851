package admin

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "mysticmatch.admin.v1.AdminService"

// AdminServer is the operator API. Messages are protobuf well-known types so
// the service needs no generated code; grpcurl can call it with plain JSON.
type AdminServer interface {
	GetProfile(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	SetActive(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	CountLikes(context.Context, *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error)
	ListMatches(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ChatHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FullMethod returns the invoke path of method, e.g. for ClientConn.Invoke.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds a method handler the way protoc-gen-go-grpc does, for any
// request/response pair.
func unary[Req any, Resp any](name string, call func(AdminServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AdminServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AdminServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes AdminService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetProfile", AdminServer.GetProfile),
		unary("SetActive", AdminServer.SetActive),
		unary("CountLikes", AdminServer.CountLikes),
		unary("ListMatches", AdminServer.ListMatches),
		unary("ChatHistory", AdminServer.ChatHistory),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mysticmatch/admin/v1/admin.proto",
}
