package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "poon.v1.DashboardService"

const (
	getDashboardMethod       = "/" + ServiceName + "/GetDashboard"
	listPositionsMethod      = "/" + ServiceName + "/ListPositions"
	listSpendingTrendsMethod = "/" + ServiceName + "/ListSpendingTrends"
	updatePriceMethod        = "/" + ServiceName + "/UpdatePrice"
)

// DashboardServiceServer is the server API for the dashboard service.
// Payloads are protobuf Structs carrying the JSON shape of the domain records.
type DashboardServiceServer interface {
	GetDashboard(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListPositions(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListSpendingTrends(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterDashboardServiceServer registers srv on s
func RegisterDashboardServiceServer(s grpc.ServiceRegistrar, srv DashboardServiceServer) {
	s.RegisterService(&DashboardService_ServiceDesc, srv)
}

// DashboardService_ServiceDesc describes the dashboard service for grpc.Server
var DashboardService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDashboard", Handler: getDashboardHandler},
		{MethodName: "ListPositions", Handler: listPositionsHandler},
		{MethodName: "ListSpendingTrends", Handler: listSpendingTrendsHandler},
		{MethodName: "UpdatePrice", Handler: updatePriceHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "poon/v1/dashboard.proto",
}

func getDashboardHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServiceServer).GetDashboard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getDashboardMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardServiceServer).GetDashboard(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listPositionsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServiceServer).ListPositions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listPositionsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardServiceServer).ListPositions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listSpendingTrendsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServiceServer).ListSpendingTrends(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listSpendingTrendsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardServiceServer).ListSpendingTrends(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func updatePriceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServiceServer).UpdatePrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: updatePriceMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardServiceServer).UpdatePrice(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// DashboardServiceClient is the client API for the dashboard service
type DashboardServiceClient interface {
	GetDashboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListPositions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListSpendingTrends(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdatePrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type dashboardServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDashboardServiceClient creates a client over cc
func NewDashboardServiceClient(cc grpc.ClientConnInterface) DashboardServiceClient {
	return &dashboardServiceClient{cc: cc}
}

func (c *dashboardServiceClient) GetDashboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getDashboardMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dashboardServiceClient) ListPositions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listPositionsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dashboardServiceClient) ListSpendingTrends(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listSpendingTrendsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dashboardServiceClient) UpdatePrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, updatePriceMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
