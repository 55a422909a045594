package health_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go-gin-airport/internal/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func status(t *testing.T, s *health.Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.Health().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestServer_Refresh(t *testing.T) {
	redisErr := errors.New("connection refused")
	s := health.NewServer(map[string]health.Checker{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return redisErr },
	}, time.Minute)

	s.Refresh(context.Background())

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, s, "postgres"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, s, "redis"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, s, ""))

	redisErr = nil
	s.Refresh(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, s, ""))
}

func TestServer_Run(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithCancel(context.Background())
	s := health.NewServer(map[string]health.Checker{
		"postgres": func(context.Context) error { return nil },
	}, 50*time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, addr) }()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	require.Eventually(t, func() bool {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "postgres"})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
