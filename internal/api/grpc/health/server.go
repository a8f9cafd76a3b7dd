package health

import (
	"context"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/oshokin/nfc-timer/internal/logger"
)

// ServiceName is the health service name that reflects the timer window.
const ServiceName = "nfc-timer"

// Service abstracts the timer query the transport depends on.
type Service interface {
	IsActive(ctx context.Context) bool
}

// Server implements grpc.health.v1.Health on top of the timer.
type Server struct {
	healthpb.UnimplementedHealthServer

	// service answers whether the window is active.
	service Service
}

// NewServer wires the provided service into a health handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Check reports SERVING for the overall server, and the timer window for ServiceName.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	switch req.GetService() {
	case "":
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
	case ServiceName:
		result := healthpb.HealthCheckResponse_NOT_SERVING
		if s.service.IsActive(ctx) {
			result = healthpb.HealthCheckResponse_SERVING
		}

		logger.DebugKV(ctx, "Health check", "service", ServiceName, "status", result.String())

		return &healthpb.HealthCheckResponse{Status: result}, nil
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
}

// Watch is not supported: the window is derived at read time and never pushed.
func (s *Server) Watch(*healthpb.HealthCheckRequest, healthpb.Health_WatchServer) error {
	return status.Error(codes.Unimplemented, "watch is not supported, poll Check instead")
}
