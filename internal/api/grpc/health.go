package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"shareit-backend/internal/api/grpc/interceptor"
	"shareit-backend/internal/logger"
)

// ServiceName is the health service name reported alongside the overall ("") status.
const ServiceName = "shareit.Backend"

// Pinger is satisfied by every store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer reports SERVING while the store answers a ping.
type HealthServer struct {
	healthpb.UnimplementedHealthServer
	store Pinger
}

func NewHealthServer(store Pinger) *HealthServer {
	return &HealthServer{store: store}
}

func (s *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}
	if err := s.store.Ping(ctx); err != nil {
		logger.WarnContext(ctx, "Health check failed", "error", err)
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

// NewServer builds the gRPC server with health and reflection registered.
func NewServer(store Pinger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.NewLoggingInterceptor(RequestIDFromContext).Unary()),
	)
	healthpb.RegisterHealthServer(srv, NewHealthServer(store))
	reflection.Register(srv)
	return srv
}
