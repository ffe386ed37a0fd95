package reminder

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/medication-alarm/internal/logger"
	rpcv1 "github.com/oshokin/medication-alarm/internal/rpc/v1"
)

// AuditInterceptor logs every unary call with the caller's actor, the status code
// and the duration. The actor is also attached to the context logger.
func AuditInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	actor := actorFrom(ctx)
	if actor != "" {
		ctx = logger.WithKV(ctx, "actor", actor)
	}

	started := time.Now()
	resp, err := handler(ctx, req)

	logger.InfoKV(
		ctx,
		"RPC handled",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(started).String(),
	)

	return resp, err
}

// actorFrom returns the user@host sent by the client, if any.
func actorFrom(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	values := md.Get(rpcv1.MetadataActor)
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
