package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	started := time.Now()
	resp, err := handler(ctx, req)

	args := []any{"method", info.FullMethod, "code", status.Code(err).String(), "latency", time.Since(started).String()}
	if err != nil {
		s.logger.Warn(ctx, "grpc call failed", append(args, "error", err.Error())...)
	} else {
		s.logger.Info(ctx, "grpc call", args...)
	}

	return resp, err
}
