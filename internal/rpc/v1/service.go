package rpcv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "medication_alarm.v1.MedicationAlarmService"

// MetadataActor is the metadata key carrying the calling user@host for audit logs.
const MetadataActor = "x-actor"

// Full method names, as seen by interceptors.
const (
	MethodCreateAlarm      = "/" + ServiceName + "/CreateAlarm"
	MethodListAlarms       = "/" + ServiceName + "/ListAlarms"
	MethodGetAlarm         = "/" + ServiceName + "/GetAlarm"
	MethodUpdateAlarm      = "/" + ServiceName + "/UpdateAlarm"
	MethodDeleteAlarm      = "/" + ServiceName + "/DeleteAlarm"
	MethodToggleAlarm      = "/" + ServiceName + "/ToggleAlarm"
	MethodProcessDueAlarms = "/" + ServiceName + "/ProcessDueAlarms"
)

// AlarmServiceServer is the server API of the medication alarm service.
type AlarmServiceServer interface {
	CreateAlarm(ctx context.Context, req *CreateAlarmRequest) (*CreateAlarmResponse, error)
	ListAlarms(ctx context.Context, req *ListAlarmsRequest) (*ListAlarmsResponse, error)
	GetAlarm(ctx context.Context, req *GetAlarmRequest) (*GetAlarmResponse, error)
	UpdateAlarm(ctx context.Context, req *UpdateAlarmRequest) (*UpdateAlarmResponse, error)
	DeleteAlarm(ctx context.Context, req *DeleteAlarmRequest) (*DeleteAlarmResponse, error)
	ToggleAlarm(ctx context.Context, req *ToggleAlarmRequest) (*ToggleAlarmResponse, error)
	ProcessDueAlarms(ctx context.Context, req *ProcessDueAlarmsRequest) (*ProcessDueAlarmsResponse, error)
}

// UnimplementedAlarmServiceServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible with new methods.
type UnimplementedAlarmServiceServer struct{}

func (UnimplementedAlarmServiceServer) CreateAlarm(context.Context, *CreateAlarmRequest) (*CreateAlarmResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAlarm not implemented")
}

func (UnimplementedAlarmServiceServer) ListAlarms(context.Context, *ListAlarmsRequest) (*ListAlarmsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAlarms not implemented")
}

func (UnimplementedAlarmServiceServer) GetAlarm(context.Context, *GetAlarmRequest) (*GetAlarmResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAlarm not implemented")
}

func (UnimplementedAlarmServiceServer) UpdateAlarm(context.Context, *UpdateAlarmRequest) (*UpdateAlarmResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAlarm not implemented")
}

func (UnimplementedAlarmServiceServer) DeleteAlarm(context.Context, *DeleteAlarmRequest) (*DeleteAlarmResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAlarm not implemented")
}

func (UnimplementedAlarmServiceServer) ToggleAlarm(context.Context, *ToggleAlarmRequest) (*ToggleAlarmResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ToggleAlarm not implemented")
}

func (UnimplementedAlarmServiceServer) ProcessDueAlarms(
	context.Context,
	*ProcessDueAlarmsRequest,
) (*ProcessDueAlarmsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ProcessDueAlarms not implemented")
}

// ServiceDesc describes the service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateAlarm",
			Handler:    unaryHandler(MethodCreateAlarm, AlarmServiceServer.CreateAlarm),
		},
		{
			MethodName: "ListAlarms",
			Handler:    unaryHandler(MethodListAlarms, AlarmServiceServer.ListAlarms),
		},
		{
			MethodName: "GetAlarm",
			Handler:    unaryHandler(MethodGetAlarm, AlarmServiceServer.GetAlarm),
		},
		{
			MethodName: "UpdateAlarm",
			Handler:    unaryHandler(MethodUpdateAlarm, AlarmServiceServer.UpdateAlarm),
		},
		{
			MethodName: "DeleteAlarm",
			Handler:    unaryHandler(MethodDeleteAlarm, AlarmServiceServer.DeleteAlarm),
		},
		{
			MethodName: "ToggleAlarm",
			Handler:    unaryHandler(MethodToggleAlarm, AlarmServiceServer.ToggleAlarm),
		},
		{
			MethodName: "ProcessDueAlarms",
			Handler:    unaryHandler(MethodProcessDueAlarms, AlarmServiceServer.ProcessDueAlarms),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "medication_alarm/v1/service",
}

// RegisterAlarmServiceServer registers srv on the gRPC server.
func RegisterAlarmServiceServer(registrar grpc.ServiceRegistrar, srv AlarmServiceServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AlarmServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(AlarmServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*Req)
			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// AlarmServiceClient is the client API of the medication alarm service.
type AlarmServiceClient interface {
	CreateAlarm(ctx context.Context, req *CreateAlarmRequest, opts ...grpc.CallOption) (*CreateAlarmResponse, error)
	ListAlarms(ctx context.Context, req *ListAlarmsRequest, opts ...grpc.CallOption) (*ListAlarmsResponse, error)
	GetAlarm(ctx context.Context, req *GetAlarmRequest, opts ...grpc.CallOption) (*GetAlarmResponse, error)
	UpdateAlarm(ctx context.Context, req *UpdateAlarmRequest, opts ...grpc.CallOption) (*UpdateAlarmResponse, error)
	DeleteAlarm(ctx context.Context, req *DeleteAlarmRequest, opts ...grpc.CallOption) (*DeleteAlarmResponse, error)
	ToggleAlarm(ctx context.Context, req *ToggleAlarmRequest, opts ...grpc.CallOption) (*ToggleAlarmResponse, error)
	ProcessDueAlarms(
		ctx context.Context,
		req *ProcessDueAlarmsRequest,
		opts ...grpc.CallOption,
	) (*ProcessDueAlarmsResponse, error)
}

type alarmServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAlarmServiceClient returns a client stub that always uses the JSON codec.
func NewAlarmServiceClient(cc grpc.ClientConnInterface) AlarmServiceClient {
	return &alarmServiceClient{cc: cc}
}

func (c *alarmServiceClient) CreateAlarm(
	ctx context.Context,
	req *CreateAlarmRequest,
	opts ...grpc.CallOption,
) (*CreateAlarmResponse, error) {
	return invoke[CreateAlarmResponse](ctx, c.cc, MethodCreateAlarm, req, opts)
}

func (c *alarmServiceClient) ListAlarms(
	ctx context.Context,
	req *ListAlarmsRequest,
	opts ...grpc.CallOption,
) (*ListAlarmsResponse, error) {
	return invoke[ListAlarmsResponse](ctx, c.cc, MethodListAlarms, req, opts)
}

func (c *alarmServiceClient) GetAlarm(
	ctx context.Context,
	req *GetAlarmRequest,
	opts ...grpc.CallOption,
) (*GetAlarmResponse, error) {
	return invoke[GetAlarmResponse](ctx, c.cc, MethodGetAlarm, req, opts)
}

func (c *alarmServiceClient) UpdateAlarm(
	ctx context.Context,
	req *UpdateAlarmRequest,
	opts ...grpc.CallOption,
) (*UpdateAlarmResponse, error) {
	return invoke[UpdateAlarmResponse](ctx, c.cc, MethodUpdateAlarm, req, opts)
}

func (c *alarmServiceClient) DeleteAlarm(
	ctx context.Context,
	req *DeleteAlarmRequest,
	opts ...grpc.CallOption,
) (*DeleteAlarmResponse, error) {
	return invoke[DeleteAlarmResponse](ctx, c.cc, MethodDeleteAlarm, req, opts)
}

func (c *alarmServiceClient) ToggleAlarm(
	ctx context.Context,
	req *ToggleAlarmRequest,
	opts ...grpc.CallOption,
) (*ToggleAlarmResponse, error) {
	return invoke[ToggleAlarmResponse](ctx, c.cc, MethodToggleAlarm, req, opts)
}

func (c *alarmServiceClient) ProcessDueAlarms(
	ctx context.Context,
	req *ProcessDueAlarmsRequest,
	opts ...grpc.CallOption,
) (*ProcessDueAlarmsResponse, error) {
	return invoke[ProcessDueAlarmsResponse](ctx, c.cc, MethodProcessDueAlarms, req, opts)
}

// invoke performs a unary call with the JSON content subtype prepended to opts.
func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	req any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)

	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, callOpts...); err != nil {
		return nil, err
	}

	return out, nil
}
