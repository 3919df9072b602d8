// Package grpcapi exposes the standard gRPC health service so orchestrators
// that probe over gRPC can track the API process alongside the HTTP /readyz
// endpoint.
package grpcapi

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const probeInterval = 10 * time.Second

// Pinger checks the backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps a grpc.Server carrying the health service.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	pinger Pinger
	done   chan struct{}
}

// New builds the server. pinger may be nil; the service then always reports
// serving.
func New(pinger Pinger) *Server {
	s := &Server{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
		pinger: pinger,
		done:   make(chan struct{}),
	}
	grpc_health_v1.RegisterHealthServer(s.srv, s.health)
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	return s
}

// Serve probes the store in the background and serves gRPC on lis. It
// returns when Stop is called or the listener fails.
func (s *Server) Serve(lis net.Listener) error {
	if s.pinger != nil {
		go s.probeLoop()
	}
	return s.srv.Serve(lis)
}

// Stop gracefully drains in-flight RPCs.
func (s *Server) Stop() {
	close(s.done)
	s.srv.GracefulStop()
}

func (s *Server) probeLoop() {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			status := grpc_health_v1.HealthCheckResponse_SERVING
			if err := s.pinger.Ping(ctx); err != nil {
				status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			}
			cancel()
			s.health.SetServingStatus("", status)
		}
	}
}
