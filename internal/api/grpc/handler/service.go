package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ApproverServiceName is the fully qualified gRPC service name.
const ApproverServiceName = "approver.Approver"

// ApproverServer is the server API for the Approver service.
type ApproverServer interface {
	HandleCode(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Approve(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Reject(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Challenge(context.Context, *wrapperspb.Int32Value) (*emptypb.Empty, error)
	Watch(*emptypb.Empty, Approver_WatchServer) error
}

// Approver_WatchServer is the server side of the Watch event stream.
type Approver_WatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type approverWatchServer struct {
	grpc.ServerStream
}

func (x *approverWatchServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterApproverServer registers srv on s.
func RegisterApproverServer(s grpc.ServiceRegistrar, srv ApproverServer) {
	s.RegisterService(&Approver_ServiceDesc, srv)
}

func _Approver_HandleCode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ApproverServer).HandleCode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ApproverServiceName + "/HandleCode"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ApproverServer).HandleCode(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Approver_Approve_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ApproverServer).Approve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ApproverServiceName + "/Approve"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ApproverServer).Approve(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Approver_Reject_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ApproverServer).Reject(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ApproverServiceName + "/Reject"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ApproverServer).Reject(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Approver_Challenge_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ApproverServer).Challenge(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ApproverServiceName + "/Challenge"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ApproverServer).Challenge(ctx, req.(*wrapperspb.Int32Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _Approver_Watch_Handler(srv interface{}, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ApproverServer).Watch(in, &approverWatchServer{stream})
}

// Approver_ServiceDesc is the grpc.ServiceDesc for the Approver service.
// Messages are protobuf well-known types, so no generated code is required.
var Approver_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ApproverServiceName,
	HandlerType: (*ApproverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "HandleCode", Handler: _Approver_HandleCode_Handler},
		{MethodName: "Approve", Handler: _Approver_Approve_Handler},
		{MethodName: "Reject", Handler: _Approver_Reject_Handler},
		{MethodName: "Challenge", Handler: _Approver_Challenge_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: _Approver_Watch_Handler, ServerStreams: true},
	},
	Metadata: "approver.proto",
}
