package grpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// RequestIDKey is the metadata key callers may set to correlate logs.
const RequestIDKey = "x-request-id"

// RequestIDFromContext returns the caller's request id from the incoming
// metadata, or a fresh one when none was sent.
func RequestIDFromContext(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}
