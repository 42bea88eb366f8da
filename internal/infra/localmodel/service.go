package localmodel

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service of the local model server.
const ServiceName = "newshub.inference.v1.Seq2Seq"

const (
	loadMethod     = "/" + ServiceName + "/Load"
	generateMethod = "/" + ServiceName + "/Generate"
)

// Seq2SeqServer is the server side of the local model protocol.
// Requests and responses are google.protobuf.Struct messages.
//
// Load:     {task, model}                      -> {ready}
// Generate: {task, model, inputs, options...}  -> {text}
type Seq2SeqServer interface {
	Load(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Generate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterSeq2SeqServer registers srv on s.
func RegisterSeq2SeqServer(s grpc.ServiceRegistrar, srv Seq2SeqServer) {
	s.RegisterService(&seq2seqServiceDesc, srv)
}

var seq2seqServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Seq2SeqServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Load", Handler: unaryHandler(loadMethod, Seq2SeqServer.Load)},
		{MethodName: "Generate", Handler: unaryHandler(generateMethod, Seq2SeqServer.Generate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "newshub/inference/v1/seq2seq.proto",
}

func unaryHandler(
	fullMethod string,
	call func(Seq2SeqServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Seq2SeqServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(Seq2SeqServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
