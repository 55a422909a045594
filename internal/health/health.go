// Package health serves the standard gRPC health protocol on an admin
// listener. Each dependency is reported as its own service name and the
// empty name reports the whole process.
package health

import (
	"context"
	"fmt"
	"net"
	"sort"
	"time"

	"go-gin-airport/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	DefaultInterval = 10 * time.Second
	checkTimeout    = 2 * time.Second
)

// Checker pings one dependency.
type Checker func(ctx context.Context) error

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	checks     map[string]Checker
	interval   time.Duration
}

func NewServer(checks map[string]Checker, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultInterval
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		checks:     checks,
		interval:   interval,
	}
}

// Health exposes the health service, mainly for in-process checks.
func (s *Server) Health() healthpb.HealthServer {
	return s.health
}

// Refresh runs every check once and publishes the result.
func (s *Server) Refresh(ctx context.Context) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	overall := healthpb.HealthCheckResponse_SERVING
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checks[name](checkCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
			logger.WithComponent("health").Warn("dependency unhealthy", zap.String("service", name), zap.Error(err))
		}
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
}

// Run serves on address until ctx is done.
func (s *Server) Run(ctx context.Context, address string) error {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", address, err)
	}

	s.Refresh(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.Refresh(ctx)
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		}
	}
}
