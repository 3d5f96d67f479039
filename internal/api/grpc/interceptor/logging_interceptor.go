package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"shareit-backend/internal/logger"
)

type LoggingInterceptor struct {
	requestID func(ctx context.Context) string
}

func NewLoggingInterceptor(requestID func(ctx context.Context) string) *LoggingInterceptor {
	return &LoggingInterceptor{requestID: requestID}
}

// Unary returns a server interceptor that scopes a logger to the call and logs its outcome.
func (i *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		l := logger.Get().With("request_id", i.requestID(ctx), "method", info.FullMethod)
		ctx = logger.WithContext(ctx, l)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		if err != nil {
			l.Warn("gRPC call failed", "code", code.String(), "error", err, "duration_ms", time.Since(start).Milliseconds())
		} else {
			l.Debug("gRPC call", "code", code.String(), "duration_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}
