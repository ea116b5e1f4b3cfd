package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// The allocation service is registered by hand. Requests and responses are
// google.protobuf.Struct messages, so no generated stubs are needed.
const (
	AllocationServiceName  = "depositflow.v1.AllocationService"
	AllocateDepositsMethod = "/" + AllocationServiceName + "/AllocateDeposits"
)

// AllocationServer is the server API for the allocation service
type AllocationServer interface {
	AllocateDeposits(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// AllocationServiceDesc describes the allocation service for grpc.Server.RegisterService
var AllocationServiceDesc = grpc.ServiceDesc{
	ServiceName: AllocationServiceName,
	HandlerType: (*AllocationServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AllocateDeposits",
			Handler:    allocateDepositsHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterAllocationServer registers srv on s
func RegisterAllocationServer(s grpc.ServiceRegistrar, srv AllocationServer) {
	s.RegisterService(&AllocationServiceDesc, srv)
}

func allocateDepositsHandler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AllocationServer).AllocateDeposits(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AllocateDepositsMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AllocationServer).AllocateDeposits(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// AllocationClient calls the allocation service over a client connection
type AllocationClient struct {
	cc grpc.ClientConnInterface
}

// NewAllocationClient creates a client on cc
func NewAllocationClient(cc grpc.ClientConnInterface) *AllocationClient {
	return &AllocationClient{cc: cc}
}

// AllocateDeposits invokes the AllocateDeposits RPC
func (c *AllocationClient) AllocateDeposits(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AllocateDepositsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
